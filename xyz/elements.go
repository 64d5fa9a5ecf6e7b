package xyz

import "strings"

// symbols lists element symbols by atomic number, starting at H = 1.
var symbols = [...]string{
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
}

const iodine = 53

var atomicNumbers = func() map[string]int {
	m := make(map[string]int, len(symbols)+1)
	for i, s := range symbols {
		m[s] = i + 1
	}
	m["I"] = iodine

	return m
}()

// AtomicNumber returns the atomic number of an element symbol, matched
// case-insensitively.
func AtomicNumber(symbol string) (int, bool) {
	if symbol == "" {
		return 0, false
	}
	norm := strings.ToUpper(symbol[:1]) + strings.ToLower(symbol[1:])
	z, ok := atomicNumbers[norm]

	return z, ok
}

// Symbol returns the element symbol of atomic number z, or "" when unknown.
func Symbol(z int) string {
	switch {
	case z >= 1 && z <= len(symbols):
		return symbols[z-1]
	case z == iodine:
		return "I"
	}

	return ""
}
