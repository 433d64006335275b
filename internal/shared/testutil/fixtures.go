package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"enrollstats/internal/enrollment"
)

// Synthetic fixture labels
var (
	SyntheticYears   = []string{"2021", "2022"}
	SyntheticGrades  = []string{"Grade 10", "Grade 11"}
	SyntheticSchools = []enrollment.School{
		{Name: "North High", Code: 100},
		{Name: "South High", Code: 200},
	}
)

// SyntheticDataset builds the 2-school, 2-grade, 2-year dataset:
// North High grade/year values [[10,20],[30,40]], South High [[500,600],[700,800]].
func SyntheticDataset(t *testing.T) *enrollment.Dataset {
	t.Helper()

	dims := enrollment.Dims{Schools: 2, Grades: 2, Years: 2}
	blocks := []enrollment.Block{
		enrollment.IntBlock(10, 30, 500, 700),
		enrollment.IntBlock(20, 40, 600, 800),
	}

	return BuildDataset(t, dims, blocks, SyntheticSchools, SyntheticYears, SyntheticGrades)
}

// SparseDataset is SyntheticDataset with a third school that has no data at all
func SparseDataset(t *testing.T) *enrollment.Dataset {
	t.Helper()

	dims := enrollment.Dims{Schools: 3, Grades: 2, Years: 2}
	n := enrollment.None()
	blocks := []enrollment.Block{
		{enrollment.Some(10), enrollment.Some(30), enrollment.Some(500), enrollment.Some(700), n, n},
		{enrollment.Some(20), enrollment.Some(40), enrollment.Some(600), enrollment.Some(800), n, n},
	}
	schools := append(append([]enrollment.School(nil), SyntheticSchools...),
		enrollment.School{Name: "Closed High", Code: 300})

	return BuildDataset(t, dims, blocks, schools, SyntheticYears, SyntheticGrades)
}

// BuildDataset loads blocks and assembles a dataset, failing the test on any error
func BuildDataset(t *testing.T, dims enrollment.Dims, blocks []enrollment.Block,
	schools []enrollment.School, years, grades []string) *enrollment.Dataset {
	t.Helper()

	arr, err := enrollment.Load(dims, blocks)
	require.NoError(t, err)

	dir, err := enrollment.NewDirectory(schools)
	require.NoError(t, err)

	ds, err := enrollment.New(arr, dir, years, grades)
	require.NoError(t, err)
	return ds
}
