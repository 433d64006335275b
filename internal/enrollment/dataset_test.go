package enrollment

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSyntheticDataset builds the 2-school, 2-grade, 2-year fixture:
// school0 grade/year values [[10,20],[30,40]], school1 [[500,600],[700,800]].
func newSyntheticDataset(t *testing.T) *Dataset {
	t.Helper()

	dims := Dims{Schools: 2, Grades: 2, Years: 2}
	blocks := []Block{
		IntBlock(10, 30, 500, 700),
		IntBlock(20, 40, 600, 800),
	}

	arr, err := Load(dims, blocks)
	require.NoError(t, err)

	dir, err := NewDirectory([]School{
		{Name: "North High", Code: 100},
		{Name: "South High", Code: 200},
	})
	require.NoError(t, err)

	ds, err := New(arr, dir, []string{"2021", "2022"}, []string{"Grade 10", "Grade 11"})
	require.NoError(t, err)
	return ds
}

// newSparseDataset builds a 3-school, 3-grade, 4-year dataset with missing cells
func newSparseDataset(t *testing.T) *Dataset {
	t.Helper()

	dims := Dims{Schools: 3, Grades: 3, Years: 4}
	n := None()
	blocks := []Block{
		{Some(120), Some(110), Some(95), Some(510), Some(520), Some(480), n, n, n},
		{Some(125), Some(115), n, Some(530), Some(505), Some(490), n, n, n},
		{Some(130), Some(118), Some(101), Some(600), Some(470), Some(515), n, n, n},
		{Some(127), n, Some(99), Some(610), Some(560), Some(501), Some(15), n, n},
	}

	arr, err := Load(dims, blocks)
	require.NoError(t, err)

	dir, err := NewDirectory([]School{
		{Name: "Alpha School", Code: 11},
		{Name: "Beta School", Code: 22},
		{Name: "Gamma School", Code: 33},
	})
	require.NoError(t, err)

	ds, err := New(arr, dir,
		[]string{"2019", "2020", "2021", "2022"},
		[]string{"Grade 10", "Grade 11", "Grade 12"})
	require.NoError(t, err)
	return ds
}

func TestSyntheticScenario(t *testing.T) {
	ds := newSyntheticDataset(t)

	idx, err := ds.Resolve(CodeQuery(200))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	stats, err := ds.SchoolStats(idx)
	require.NoError(t, err)
	assert.Equal(t, Some(int(math.Floor((500.0+600.0)/2))), stats.GradeMeans[0].Mean)
	assert.Equal(t, Some(750), stats.GradeMeans[1].Mean)
	assert.Equal(t, Some(800), stats.Highest)
	assert.Equal(t, Some(500), stats.Lowest)
	assert.Equal(t, []YearTotal{{Year: "2021", Total: 1200}, {Year: "2022", Total: 1400}}, stats.Yearly)
	assert.Equal(t, 2600, stats.TotalTenYears)
	assert.Equal(t, Some(1300), stats.MeanYearlyTotal)
}

func TestResolve(t *testing.T) {
	ds := newSparseDataset(t)

	tests := []struct {
		name    string
		query   Query
		want    int
		wantErr bool
	}{
		{name: "name match", query: NameQuery("Beta School"), want: 1},
		{name: "code match", query: CodeQuery(33), want: 2},
		{name: "lowercase name", query: NameQuery("beta school"), wantErr: true},
		{name: "padded name", query: NameQuery(" Beta School"), wantErr: true},
		{name: "partial name", query: NameQuery("Beta"), wantErr: true},
		{name: "unknown code", query: CodeQuery(99), wantErr: true},
		{name: "code given as name", query: NameQuery("22"), wantErr: true},
		{name: "nil query", query: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ds.Resolve(tt.query)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSchool))
				assert.Equal(t, InvalidSchoolMessage, err.Error())

				var ise *InvalidSchoolError
				require.True(t, errors.As(err, &ise))
				assert.Equal(t, tt.query, ise.Query)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveNameAndCodeAgree(t *testing.T) {
	ds := newSparseDataset(t)

	for i, s := range ds.Directory().Schools() {
		byName, err := ds.Resolve(NameQuery(s.Name))
		require.NoError(t, err)
		byCode, err := ds.Resolve(CodeQuery(s.Code))
		require.NoError(t, err)

		assert.Equal(t, i, byName)
		assert.Equal(t, byName, byCode)
	}
}

func TestSchoolStats_GradeMeansTruncate(t *testing.T) {
	ds := newSparseDataset(t)
	arr := ds.Array()
	dims := ds.Dims()

	for s := 0; s < dims.Schools; s++ {
		stats, err := ds.SchoolStats(s)
		require.NoError(t, err)

		for g := 0; g < dims.Grades; g++ {
			sum, count := 0, 0
			for y := 0; y < dims.Years; y++ {
				if v, ok := arr.At(s, g, y).Get(); ok {
					sum += v
					count++
				}
			}

			got := stats.GradeMeans[g].Mean
			if count == 0 {
				assert.False(t, got.Valid, "school %d grade %d should be undefined", s, g)
				continue
			}
			assert.Equal(t, Some(int(math.Floor(float64(sum)/float64(count)))), got,
				"school %d grade %d", s, g)
		}
	}
}

func TestSchoolStats_MissingCellsSkipped(t *testing.T) {
	ds := newSparseDataset(t)

	stats, err := ds.SchoolStats(0)
	require.NoError(t, err)

	// grade 11 is missing in the last year: (110+115+118)/3 = 114.33
	assert.Equal(t, Some(114), stats.GradeMeans[1].Mean)
	// grade 12 is missing in the second year: (95+101+99)/3 = 98.33
	assert.Equal(t, Some(98), stats.GradeMeans[2].Mean)
	assert.Equal(t, Some(130), stats.Highest)
	assert.Equal(t, Some(95), stats.Lowest)
	assert.Equal(t, 240, stats.Yearly[1].Total)
	assert.Equal(t, 226, stats.Yearly[3].Total)
}

func TestSchoolStats_AllMissingGradeUndefined(t *testing.T) {
	ds := newSparseDataset(t)

	stats, err := ds.SchoolStats(2)
	require.NoError(t, err)

	assert.Equal(t, Some(15), stats.GradeMeans[0].Mean)
	assert.False(t, stats.GradeMeans[1].Mean.Valid)
	assert.False(t, stats.GradeMeans[2].Mean.Valid)
	assert.Equal(t, "nan", stats.GradeMeans[1].Mean.String())
	assert.Equal(t, Some(15), stats.Highest)
	assert.Equal(t, Some(15), stats.Lowest)
	assert.Equal(t, []YearTotal{
		{Year: "2019", Total: 0},
		{Year: "2020", Total: 0},
		{Year: "2021", Total: 0},
		{Year: "2022", Total: 15},
	}, stats.Yearly)
	assert.Equal(t, Some(3), stats.MeanYearlyTotal)
}

func TestSchoolStats_TotalMatchesYearly(t *testing.T) {
	for _, ds := range []*Dataset{newSyntheticDataset(t), newSparseDataset(t)} {
		for s := 0; s < ds.Dims().Schools; s++ {
			stats, err := ds.SchoolStats(s)
			require.NoError(t, err)

			sum := 0
			for _, yt := range stats.Yearly {
				sum += yt.Total
			}
			assert.Equal(t, stats.TotalTenYears, sum)
		}
	}
}

func TestSchoolStats_IndexOutOfRange(t *testing.T) {
	ds := newSyntheticDataset(t)

	for _, idx := range []int{-1, 2, 100} {
		_, err := ds.SchoolStats(idx)
		assert.ErrorIs(t, err, ErrInvalidSchool)

		_, err = ds.MedianOverThreshold(idx, DefaultThreshold)
		assert.ErrorIs(t, err, ErrInvalidSchool)
	}
}

func TestGeneralStats(t *testing.T) {
	ds := newSparseDataset(t)

	gs := ds.GeneralStats()
	assert.Equal(t, "2019", gs.FirstYear)
	assert.Equal(t, "2022", gs.LastYear)
	// first year valid cells: 120 110 95 510 520 480 -> 1835/6 = 305.8
	assert.Equal(t, Some(305), gs.MeanFirstYear)
	// last year valid cells: 127 99 610 560 501 15 -> 1912/6 = 318.67
	assert.Equal(t, Some(318), gs.MeanLastYear)
	assert.Equal(t, 1912, gs.TotalLastYear)
	assert.Equal(t, Some(610), gs.Highest)
	assert.Equal(t, Some(15), gs.Lowest)
}

func TestGeneralStats_ExtremesMatchPerSchool(t *testing.T) {
	for _, ds := range []*Dataset{newSyntheticDataset(t), newSparseDataset(t)} {
		gs := ds.GeneralStats()

		var highs, lows []Cell
		for s := 0; s < ds.Dims().Schools; s++ {
			stats, err := ds.SchoolStats(s)
			require.NoError(t, err)
			highs = append(highs, stats.Highest)
			lows = append(lows, stats.Lowest)
		}

		maxHigh, _ := extremes(highs)
		_, minLow := extremes(lows)
		assert.Equal(t, maxHigh, gs.Highest)
		assert.Equal(t, minLow, gs.Lowest)
	}
}

func TestMedianOverThreshold(t *testing.T) {
	ds := newSparseDataset(t)

	tests := []struct {
		name      string
		school    int
		threshold int
		want      MedianResult
	}{
		{
			name:      "no values above threshold",
			school:    0,
			threshold: DefaultThreshold,
			want:      MedianResult{Threshold: 500, Found: false},
		},
		{
			name:      "odd count takes middle value",
			school:    1,
			threshold: DefaultThreshold,
			// 501 505 510 515 520 530 560 600 610
			want: MedianResult{Threshold: 500, Median: 520, Found: true, Count: 9},
		},
		{
			name:      "threshold is strict",
			school:    1,
			threshold: 600,
			want:      MedianResult{Threshold: 600, Median: 610, Found: true, Count: 1},
		},
		{
			name:      "higher threshold",
			school:    1,
			threshold: 505,
			// 510 515 520 530 560 600 610
			want: MedianResult{Threshold: 505, Median: 530, Found: true, Count: 7},
		},
		{
			name:      "even count floors the averaged middle",
			school:    0,
			threshold: 112,
			// 115 118 120 125 127 130 -> (120+125)/2 = 122.5
			want: MedianResult{Threshold: 112, Median: 122, Found: true, Count: 6},
		},
		{
			name:      "missing cells ignored",
			school:    2,
			threshold: 0,
			want:      MedianResult{Threshold: 0, Median: 15, Found: true, Count: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ds.MedianOverThreshold(tt.school, tt.threshold)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMedianOverThreshold_EvenCount(t *testing.T) {
	ds := newSyntheticDataset(t)

	// school1 values 500 600 700 800; above 500: 600 700 800 -> 700
	got, err := ds.MedianOverThreshold(1, 500)
	require.NoError(t, err)
	assert.Equal(t, 700, got.Median)

	// above 0: 500 600 700 800 -> (600+700)/2 = 650
	got, err = ds.MedianOverThreshold(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 650, got.Median)

	// school0 above 5: 10 20 30 40 -> 25
	got, err = ds.MedianOverThreshold(0, 5)
	require.NoError(t, err)
	assert.Equal(t, 25, got.Median)
}

func TestMedianOverThreshold_ExceedsThreshold(t *testing.T) {
	ds := newSparseDataset(t)

	for s := 0; s < ds.Dims().Schools; s++ {
		for _, threshold := range []int{0, 100, 500, 1000} {
			got, err := ds.MedianOverThreshold(s, threshold)
			require.NoError(t, err)
			if got.Found {
				assert.GreaterOrEqual(t, got.Median, threshold+1)
			} else {
				assert.Zero(t, got.Count)
			}
		}
	}
}

func TestNew_Validation(t *testing.T) {
	arr, err := Load(Dims{Schools: 1, Grades: 1, Years: 2}, []Block{IntBlock(1), IntBlock(2)})
	require.NoError(t, err)

	one, err := NewDirectory([]School{{Name: "Solo", Code: 1}})
	require.NoError(t, err)
	two, err := NewDirectory([]School{{Name: "A", Code: 1}, {Name: "B", Code: 2}})
	require.NoError(t, err)

	_, err = New(arr, two, []string{"a", "b"}, []string{"g"})
	assert.ErrorIs(t, err, ErrDirectory)

	_, err = New(arr, one, []string{"a"}, []string{"g"})
	assert.ErrorIs(t, err, ErrShape)

	_, err = New(arr, one, []string{"a", "b"}, nil)
	assert.ErrorIs(t, err, ErrDirectory)

	_, err = New(nil, one, nil, nil)
	assert.Error(t, err)

	ds, err := New(arr, one, []string{"a", "b"}, []string{"g"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Years())
	assert.Equal(t, []string{"g"}, ds.Grades())
}

func TestDataset_ConcurrentReads(t *testing.T) {
	ds := newSparseDataset(t)
	want, err := ds.SchoolStats(1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := ds.SchoolStats(1)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
			_ = ds.GeneralStats()
		}()
	}
	wg.Wait()
}
