package enrollment

// Directory maps school names and codes to their index on the school axis
type Directory struct {
	schools []School
	byName  map[string]int
	byCode  map[int]int
}

// NewDirectory builds a directory, rejecting empty or duplicate names and duplicate codes
func NewDirectory(schools []School) (*Directory, error) {
	if len(schools) == 0 {
		return nil, &DirectoryError{Field: "schools", Message: "directory must not be empty"}
	}

	d := &Directory{
		schools: make([]School, len(schools)),
		byName:  make(map[string]int, len(schools)),
		byCode:  make(map[int]int, len(schools)),
	}
	copy(d.schools, schools)

	for i, s := range schools {
		if s.Name == "" {
			return nil, &DirectoryError{Field: "name", Message: "school name must not be empty", Value: i}
		}
		if _, dup := d.byName[s.Name]; dup {
			return nil, &DirectoryError{Field: "name", Message: "duplicate school name", Value: s.Name}
		}
		if _, dup := d.byCode[s.Code]; dup {
			return nil, &DirectoryError{Field: "code", Message: "duplicate school code", Value: s.Code}
		}
		d.byName[s.Name] = i
		d.byCode[s.Code] = i
	}

	return d, nil
}

// Len returns the number of schools
func (d *Directory) Len() int {
	return len(d.schools)
}

// School returns the entry at index i
func (d *Directory) School(i int) (School, bool) {
	if i < 0 || i >= len(d.schools) {
		return School{}, false
	}
	return d.schools[i], true
}

// Schools returns a copy of the directory entries in axis order
func (d *Directory) Schools() []School {
	out := make([]School, len(d.schools))
	copy(out, d.schools)
	return out
}

// Resolve returns the index of the school matching q.
// Names match exactly (case and whitespace sensitive); codes match exactly.
func (d *Directory) Resolve(q Query) (int, error) {
	switch q := q.(type) {
	case NameQuery:
		if i, ok := d.byName[string(q)]; ok {
			return i, nil
		}
	case CodeQuery:
		if i, ok := d.byCode[int(q)]; ok {
			return i, nil
		}
	}
	return -1, &InvalidSchoolError{Query: q}
}
