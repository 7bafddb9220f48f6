package bom

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Vars is a set of named numeric variables visible to formulas.
type Vars map[string]float64

// Clone returns an independent copy of v.
func (v Vars) Clone() Vars {
	out := make(Vars, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

var (
	ErrEmptyExpression = errors.New("empty expression")
	ErrSyntax          = errors.New("syntax error")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrNotFinite       = errors.New("result is not finite")
)

// Evaluate computes expr after substituting every variable of vars, longest
// name first so that a variable named Li is replaced before L. It accepts
// numbers, + - * / ( ), unary signs and a single ternary cond ? a : b whose
// condition compares with <= < > >= or ==. Anything else is an error.
func Evaluate(expr string, vars Vars) (float64, error) {
	src := substitute(expr, vars)
	if strings.TrimSpace(src) == "" {
		return 0, ErrEmptyExpression
	}
	if strings.Count(src, "?") > 1 {
		return 0, fmt.Errorf("%w: more than one ternary in %q", ErrSyntax, expr)
	}

	p := &parser{src: src}
	val, err := p.ternary()
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return 0, fmt.Errorf("evaluate %q: %w: unexpected %q at %d", expr, ErrSyntax, p.src[p.pos], p.pos)
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, fmt.Errorf("evaluate %q: %w", expr, ErrNotFinite)
	}
	return val, nil
}

// EvalArea evaluates an area formula, returning 0 when it cannot be evaluated.
func EvalArea(expr string, vars Vars) float64 {
	v, err := Evaluate(expr, vars)
	if err != nil {
		return 0
	}
	return v
}

// EvalQuantity evaluates a hardware quantity formula, returning 1 when it
// cannot be evaluated.
func EvalQuantity(expr string, vars Vars) float64 {
	v, err := Evaluate(expr, vars)
	if err != nil {
		return 1
	}
	return v
}

// quantityOf turns a quantity formula into a whole count of at least one.
// An empty formula means one.
func quantityOf(formula string, vars Vars) int {
	if strings.TrimSpace(formula) == "" {
		return 1
	}
	return int(math.Ceil(math.Max(1, EvalQuantity(formula, vars))))
}

func substitute(expr string, vars Vars) string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	out := expr
	for _, name := range names {
		if !strings.Contains(out, name) {
			continue
		}
		out = strings.ReplaceAll(out, name, formatNumber(vars[name]))
	}
	return out
}

func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v < 0 {
		return "(" + s + ")"
	}
	return s
}

// parser is a recursive-descent evaluator over an already substituted,
// purely numeric expression.
type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) ternary() (float64, error) {
	left, err := p.additive()
	if err != nil {
		return 0, err
	}
	op := p.comparison()
	if op == "" {
		return left, nil
	}
	right, err := p.additive()
	if err != nil {
		return 0, err
	}
	if p.peek() != '?' {
		return 0, fmt.Errorf("%w: comparison outside a ternary", ErrSyntax)
	}
	p.pos++

	whenTrue, err := p.additive()
	if err != nil {
		return 0, err
	}
	if p.peek() != ':' {
		return 0, fmt.Errorf("%w: expected ':'", ErrSyntax)
	}
	p.pos++
	whenFalse, err := p.additive()
	if err != nil {
		return 0, err
	}

	if compare(op, left, right) {
		return whenTrue, nil
	}
	return whenFalse, nil
}

func (p *parser) comparison() string {
	p.skipSpace()
	for _, op := range []string{"<=", ">=", "==", "<", ">"} {
		if strings.HasPrefix(p.src[p.pos:], op) {
			p.pos += len(op)
			return op
		}
	}
	return ""
}

func compare(op string, a, b float64) bool {
	switch op {
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	case "==":
		return a == b
	case "<":
		return a < b
	default:
		return a > b
	}
}

func (p *parser) additive() (float64, error) {
	acc, err := p.multiplicative()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.multiplicative()
			if err != nil {
				return 0, err
			}
			acc += rhs
		case '-':
			p.pos++
			rhs, err := p.multiplicative()
			if err != nil {
				return 0, err
			}
			acc -= rhs
		default:
			return acc, nil
		}
	}
}

func (p *parser) multiplicative() (float64, error) {
	acc, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.unary()
			if err != nil {
				return 0, err
			}
			acc *= rhs
		case '/':
			p.pos++
			rhs, err := p.unary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, ErrDivisionByZero
			}
			acc /= rhs
		default:
			return acc, nil
		}
	}
}

func (p *parser) unary() (float64, error) {
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.unary()
		return -v, err
	case '+':
		p.pos++
		return p.unary()
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	c := p.peek()
	if c == '(' {
		p.pos++
		v, err := p.ternary()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: expected ')'", ErrSyntax)
		}
		p.pos++
		return v, nil
	}
	if c == 0 {
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}

	start := p.pos
	for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, c, start)
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, p.src[start:p.pos])
	}
	return v, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
