package dataset

import (
	"enrollstats/internal/enrollment"
)

// DefaultSchools is the Calgary high school directory in school-axis order
var DefaultSchools = []enrollment.School{
	{Name: "Centennial High School", Code: 1224},
	{Name: "Robert Thirsk School", Code: 1679},
	{Name: "Louise Dean School", Code: 9626},
	{Name: "Queen Elizabeth High School", Code: 9806},
	{Name: "Forest Lawn High School", Code: 9813},
	{Name: "Crescent Heights High School", Code: 9815},
	{Name: "Western Canada High School", Code: 9816},
	{Name: "Central Memorial High School", Code: 9823},
	{Name: "James Fowler High School", Code: 9825},
	{Name: "Ernest Manning High School", Code: 9826},
	{Name: "William Aberhart High School", Code: 9829},
	{Name: "National Sport School", Code: 9830},
	{Name: "Henry Wise Wood High School", Code: 9836},
	{Name: "Bowness High School", Code: 9847},
	{Name: "Lord Beaverbrook High School", Code: 9850},
	{Name: "Jack James High School", Code: 9856},
	{Name: "Sir Winston Churchill High School", Code: 9857},
	{Name: "Dr. E. P. Scarlett High School", Code: 9858},
	{Name: "John G Diefenbaker High School", Code: 9860},
	{Name: "Lester B. Pearson High School", Code: 9865},
}

// DefaultYears labels the year axis
var DefaultYears = []string{"2013", "2014", "2015", "2016", "2017", "2018", "2019", "2020", "2021", "2022"}

// DefaultGrades labels the grade axis
var DefaultGrades = []string{"Grade 10", "Grade 11", "Grade 12"}

// Layout describes the directory and axis labels a source is read against
type Layout struct {
	Schools []enrollment.School
	Years   []string
	Grades  []string
}

// DefaultLayout returns the bundled directory and labels
func DefaultLayout() Layout {
	return Layout{
		Schools: append([]enrollment.School(nil), DefaultSchools...),
		Years:   append([]string(nil), DefaultYears...),
		Grades:  append([]string(nil), DefaultGrades...),
	}
}

// Dims returns the array shape implied by the layout
func (l Layout) Dims() enrollment.Dims {
	return enrollment.Dims{Schools: len(l.Schools), Grades: len(l.Grades), Years: len(l.Years)}
}
