package enrollment

import (
	"strconv"
	"strings"
)

// Query identifies a school either by name or by numeric code
type Query interface {
	isQuery()
	String() string
}

// NameQuery looks a school up by its exact name
type NameQuery string

// CodeQuery looks a school up by its numeric code
type CodeQuery int

func (NameQuery) isQuery() {}
func (CodeQuery) isQuery() {}

// String returns the name as given
func (q NameQuery) String() string { return string(q) }

// String returns the code in base 10
func (q CodeQuery) String() string { return strconv.Itoa(int(q)) }

// ParseQuery converts raw user input into a query.
// Input that parses as a base-10 integer (surrounding whitespace allowed) is a code;
// anything else is a name, kept verbatim.
func ParseQuery(input string) Query {
	if code, err := strconv.Atoi(strings.TrimSpace(input)); err == nil {
		return CodeQuery(code)
	}
	return NameQuery(input)
}
