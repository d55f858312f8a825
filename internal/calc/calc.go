// Package calc evaluates short arithmetic expressions typed into the search
// field. It is deliberately small: +, -, *, /, ^ (right-associative), unary
// minus and parentheses over decimal numbers. Anything else is "not an
// expression" rather than an error.
package calc

import (
	"math"
	"strconv"
	"strings"
)

// Evaluate parses and computes input. The boolean is false when the input is
// not a complete arithmetic expression; queries like "firefox" fall through
// to the other search sources.
func Evaluate(input string) (string, bool) {
	if input == "" {
		return "", false
	}

	// Cheap precheck so ordinary queries skip the parser: an expression
	// needs at least one digit and one operator or parenthesis.
	hasDigit := strings.ContainsFunc(input, func(r rune) bool { return r >= '0' && r <= '9' })
	hasOp := strings.ContainsAny(input, "+-*/^()")
	if !hasDigit || !hasOp {
		return "", false
	}

	p := newParser(input)
	value, ok := p.parseExpr()
	if !ok || p.pos < len(p.runes) {
		return "", false
	}
	return formatNumber(value)
}

type parser struct {
	runes []rune
	pos   int
}

func newParser(input string) *parser {
	runes := make([]rune, 0, len(input))
	for _, r := range input {
		if r == ' ' || r == '\t' {
			continue
		}
		runes = append(runes, r)
	}
	return &parser{runes: runes}
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.runes) {
		return 0, false
	}
	return p.runes[p.pos], true
}

func (p *parser) next() (rune, bool) {
	r, ok := p.peek()
	if ok {
		p.pos++
	}
	return r, ok
}

func (p *parser) parseExpr() (float64, bool) {
	left, ok := p.parseTerm()
	if !ok {
		return 0, false
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			break
		}
		p.pos++
		right, ok := p.parseTerm()
		if !ok {
			return 0, false
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
	return left, true
}

func (p *parser) parseTerm() (float64, bool) {
	left, ok := p.parsePower()
	if !ok {
		return 0, false
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/') {
			break
		}
		p.pos++
		right, ok := p.parsePower()
		if !ok {
			return 0, false
		}
		if op == '*' {
			left *= right
		} else {
			left /= right
		}
	}
	return left, true
}

func (p *parser) parsePower() (float64, bool) {
	base, ok := p.parseUnary()
	if !ok {
		return 0, false
	}
	if r, ok := p.peek(); ok && r == '^' {
		p.pos++
		exp, ok := p.parsePower()
		if !ok {
			return 0, false
		}
		return math.Pow(base, exp), true
	}
	return base, true
}

func (p *parser) parseUnary() (float64, bool) {
	if r, ok := p.peek(); ok && r == '-' {
		p.pos++
		value, ok := p.parseUnary()
		if !ok {
			return 0, false
		}
		return -value, true
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (float64, bool) {
	if r, ok := p.peek(); ok && r == '(' {
		p.pos++
		value, ok := p.parseExpr()
		if !ok {
			return 0, false
		}
		if r, ok := p.next(); !ok || r != ')' {
			return 0, false
		}
		return value, true
	}
	return p.parseNumber()
}

func (p *parser) parseNumber() (float64, bool) {
	start := p.pos
	for {
		r, ok := p.peek()
		if !ok || ((r < '0' || r > '9') && r != '.') {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return 0, false
	}
	value, err := strconv.ParseFloat(string(p.runes[start:p.pos]), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// formatNumber renders the value the way a calculator widget would: whole
// numbers without a decimal point, everything else with up to ten decimals
// and trailing zeros trimmed. NaN and infinities (division by zero) are not
// presentable results.
func formatNumber(v float64) (string, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", false
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10), true
	}
	s := strconv.FormatFloat(v, 'f', 10, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s, true
}
