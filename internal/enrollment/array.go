package enrollment

// Array is a read-only (school, grade, year) cube of enrollment cells
type Array struct {
	dims  Dims
	cells []Cell // index: (school*Grades+grade)*Years + year
}

// Load reshapes yearly flat blocks into an Array.
// Block y fills [:, :, y]; within a block, flat index school*Grades+grade maps to (school, grade).
func Load(dims Dims, blocks []Block) (*Array, error) {
	if !dims.IsValid() {
		return nil, &ShapeError{Year: -1, Got: len(blocks), Dims: &dims}
	}
	if len(blocks) != dims.Years {
		return nil, &ShapeError{Year: -1, Want: dims.Years, Got: len(blocks)}
	}

	a := &Array{
		dims:  dims,
		cells: make([]Cell, dims.Cells()),
	}

	for y, block := range blocks {
		if len(block) != dims.BlockSize() {
			return nil, &ShapeError{Year: y, Want: dims.BlockSize(), Got: len(block)}
		}
		for flat, c := range block {
			s, g := flat/dims.Grades, flat%dims.Grades
			a.cells[a.offset(s, g, y)] = c
		}
	}

	return a, nil
}

func (a *Array) offset(school, grade, year int) int {
	return (school*a.dims.Grades+grade)*a.dims.Years + year
}

// Dims returns the array shape
func (a *Array) Dims() Dims {
	return a.dims
}

// Ndim returns the number of axes
func (a *Array) Ndim() int {
	return 3
}

// At returns the cell at (school, grade, year). Out-of-range coordinates yield a no-data cell.
func (a *Array) At(school, grade, year int) Cell {
	if school < 0 || school >= a.dims.Schools ||
		grade < 0 || grade >= a.dims.Grades ||
		year < 0 || year >= a.dims.Years {
		return None()
	}
	return a.cells[a.offset(school, grade, year)]
}

// GradeSeries returns the cells [school, grade, :] in year order
func (a *Array) GradeSeries(school, grade int) []Cell {
	start := a.offset(school, grade, 0)
	out := make([]Cell, a.dims.Years)
	copy(out, a.cells[start:start+a.dims.Years])
	return out
}

// SchoolSlice returns every cell of [school, :, :]
func (a *Array) SchoolSlice(school int) []Cell {
	size := a.dims.Grades * a.dims.Years
	start := a.offset(school, 0, 0)
	out := make([]Cell, size)
	copy(out, a.cells[start:start+size])
	return out
}

// YearSlice returns every cell of [:, :, year] in school-major order
func (a *Array) YearSlice(year int) []Cell {
	out := make([]Cell, 0, a.dims.BlockSize())
	for s := 0; s < a.dims.Schools; s++ {
		for g := 0; g < a.dims.Grades; g++ {
			out = append(out, a.At(s, g, year))
		}
	}
	return out
}

// All returns every cell of the array
func (a *Array) All() []Cell {
	out := make([]Cell, len(a.cells))
	copy(out, a.cells)
	return out
}
