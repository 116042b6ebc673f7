package parser

import (
	"fmt"
	"unicode"
)

// NotAnOperator is the strength reported for characters absent from the
// precedence table.
const NotAnOperator = -1

// Precedence maps single-character binary operators to binding strength.
// Higher strength binds tighter. The table is mutable so a session can
// install additional operators.
type Precedence struct {
	table map[rune]int
}

// DefaultPrecedence returns the baseline table: '<' 10, '+' 20, '-' 20,
// '*' 40.
func DefaultPrecedence() *Precedence {
	return &Precedence{
		table: map[rune]int{
			'<': 10,
			'+': 20,
			'-': 20,
			'*': 40,
		},
	}
}

// Set installs or overrides an operator. Strength must be positive and the
// operator must be a single punctuation-like character.
func (p *Precedence) Set(op rune, strength int) error {
	if strength < 1 {
		return fmt.Errorf("operator %q: strength must be positive, got %d", op, strength)
	}
	if unicode.IsLetter(op) || unicode.IsDigit(op) || unicode.IsSpace(op) {
		return fmt.Errorf("operator %q: not a usable operator character", op)
	}
	p.table[op] = strength
	return nil
}

// Lookup reports the strength of op, or NotAnOperator when op is not a
// binary operator.
func (p *Precedence) Lookup(op rune) int {
	strength, ok := p.table[op]
	if !ok {
		return NotAnOperator
	}
	return strength
}
