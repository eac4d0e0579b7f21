package device

import "strings"

var forceUnits = []struct {
	name string
	perLbf float32
}{
	{"lbf", 1},
	{"ozf", 16},
	{"kgf", 0.45359237},
	{"gf", 453.59237},
	{"N", 4.4482216},
	{"kN", 0.0044482216},
	{"mN", 4448.2216},
}

// UnitName returns the name of a force unit index.
func UnitName(index uint32) string {
	if int(index) < len(forceUnits) {
		return forceUnits[index].name
	}
	return ""
}

// UnitIndex looks up a force unit by name.
func UnitIndex(name string) (uint32, bool) {
	for i, u := range forceUnits {
		if strings.EqualFold(u.name, name) {
			return uint32(i), true
		}
	}
	return 0, false
}

// ConvFactor returns the factor converting from one unit to another.
// Unknown units convert with factor 1.
func ConvFactor(from, to string) float32 {
	fi, ok1 := UnitIndex(from)
	ti, ok2 := UnitIndex(to)
	if !ok1 || !ok2 {
		return 1
	}
	return forceUnits[ti].perLbf / forceUnits[fi].perLbf
}
