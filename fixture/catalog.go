package fixture

import (
	"fmt"
)

// Fixture is a named data set and the file it is written to.
type Fixture struct {
	Name string
	File string
	Data Data
}

// Catalog returns the standard fixtures.
func Catalog() []Fixture {
	return []Fixture{
		{Name: "bool", File: "bool.bin", Data: Data{"f0": {true, false, true}}},
		{Name: "float", File: "float.bin", Data: Data{"f0": {1.5, 2.5, nil}}},
		{Name: "string", File: "string.bin", Data: Data{"f0": {"foo", "bar", nil}}},
		{Name: "int", File: "int.bin", Data: Data{"f0": {1, 2, 3}}},
		{Name: "mixed", File: "mixed.bin", Data: Data{
			"f0": {1, 2, 3},
			"f1": {1.5, 2.5, nil},
			"f2": {true, false, true},
			"f3": {"foo", "bar", nil},
		}},
	}
}

// Extra returns fixtures that are only written on request: a dictionary encoded column
// and a zero length column.
func Extra() []Fixture {
	return []Fixture{
		{Name: "enum", File: "enum.bin", Data: Data{"f0": {Category("a"), Category("b"), nil, Category("a")}}},
		{Name: "empty", File: "empty.bin", Data: Data{"f0": {}}},
	}
}

// Lookup finds a fixture by name in both Catalog and Extra.
func Lookup(name string) (Fixture, error) {
	for _, f := range append(Catalog(), Extra()...) {
		if f.Name == name {
			return f, nil
		}
	}
	return Fixture{}, fmt.Errorf("unknown fixture [%s]", name)
}

// Names lists fixture names of fixtures in order.
func Names(fixtures []Fixture) []string {
	names := make([]string, len(fixtures))
	for i, f := range fixtures {
		names[i] = f.Name
	}
	return names
}
