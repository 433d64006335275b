package enrollment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		input string
		want  Query
	}{
		{input: "9865", want: CodeQuery(9865)},
		{input: "-3", want: CodeQuery(-3)},
		{input: "Centennial High School", want: NameQuery("Centennial High School")},
		{input: " 9865\t", want: CodeQuery(9865)},
		{input: " Bowness High School", want: NameQuery(" Bowness High School")},
		{input: "98.6", want: NameQuery("98.6")},
		{input: "", want: NameQuery("")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.input))
		})
	}
}

func TestQueryString(t *testing.T) {
	assert.Equal(t, "1224", CodeQuery(1224).String())
	assert.Equal(t, "Bowness High School", NameQuery("Bowness High School").String())
}

func TestNewDirectory(t *testing.T) {
	tests := []struct {
		name    string
		schools []School
		field   string
	}{
		{name: "empty", schools: nil, field: "schools"},
		{name: "blank name", schools: []School{{Name: "", Code: 1}}, field: "name"},
		{name: "duplicate name", schools: []School{{Name: "A", Code: 1}, {Name: "A", Code: 2}}, field: "name"},
		{name: "duplicate code", schools: []School{{Name: "A", Code: 1}, {Name: "B", Code: 1}}, field: "code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDirectory(tt.schools)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDirectory)

			de, ok := err.(*DirectoryError)
			require.True(t, ok)
			assert.Equal(t, tt.field, de.Field)
		})
	}
}

func TestDirectory_Accessors(t *testing.T) {
	schools := []School{{Name: "A", Code: 1}, {Name: "B", Code: 2}}
	dir, err := NewDirectory(schools)
	require.NoError(t, err)

	schools[0].Name = "changed"
	got, ok := dir.School(0)
	require.True(t, ok)
	assert.Equal(t, "A", got.Name)

	_, ok = dir.School(2)
	assert.False(t, ok)
	assert.Equal(t, 2, dir.Len())

	list := dir.Schools()
	list[1].Code = 99
	idx, err := dir.Resolve(CodeQuery(2))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}
