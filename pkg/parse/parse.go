package parse

import (
	"fmt"
	"strconv"

	"github.com/agenthands/stepmath/pkg/token"
)

// SyntaxError reports invalid algebraic input with its byte offset.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// Tokens parses a single expression into a level token sequence.
func Tokens(src string) ([]*token.Token, error) {
	lhs, _, isEquation, err := Source(src)
	if err != nil {
		return nil, err
	}
	if isEquation {
		return nil, &SyntaxError{Pos: 0, Msg: "unexpected '=' in expression"}
	}
	return lhs, nil
}

// Source parses an expression or a one-'=' equation. For an expression only
// lhs is populated. Scope paths are assigned on the returned sequences.
func Source(src string) (lhs, rhs []*token.Token, isEquation bool, err error) {
	p := &parser{src: src}
	lhs, err = p.parseLevel(0)
	if err != nil {
		return nil, nil, false, err
	}
	p.skipSpace()
	if p.eof() {
		if len(lhs) == 0 {
			return nil, nil, false, p.errf("empty input")
		}
		token.Reindex(lhs)
		return lhs, nil, false, nil
	}
	// parseLevel only stops early on '='
	p.pos++
	if len(lhs) == 0 {
		return nil, nil, false, p.errf("empty left-hand side")
	}
	rhs, err = p.parseLevel(0)
	if err != nil {
		return nil, nil, false, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, nil, false, p.errf("unexpected %q after equation", p.src[p.pos])
	}
	if len(rhs) == 0 {
		return nil, nil, false, p.errf("empty right-hand side")
	}
	token.Reindex(lhs)
	token.Reindex(rhs)
	return lhs, rhs, true, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool  { return p.pos >= len(p.src) }
func (p *parser) peek() byte { return p.src[p.pos] }

func (p *parser) skipSpace() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) errf(format string, args ...any) error {
	return &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

// parseLevel scans one nesting level: operands alternating with binary
// operators. A single leading '-' is folded into the first term's sign.
// Stops without consuming at ')' (depth > 0) and at '=' (depth 0).
func (p *parser) parseLevel(depth int) ([]*token.Token, error) {
	var seq []*token.Token
	negate := false
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		ch := p.peek()
		if ch == '=' {
			if depth > 0 {
				return nil, p.errf("'=' inside brackets")
			}
			break
		}
		if ch == ')' {
			if depth == 0 {
				return nil, p.errf("unexpected ')'")
			}
			break
		}
		if ch == '+' || ch == '-' || ch == '*' || ch == '/' {
			if len(seq) == 0 && !negate {
				if ch == '-' {
					negate = true
					p.pos++
					continue
				}
				return nil, p.errf("expected a term before %q", ch)
			}
			if len(seq) > 0 && seq[len(seq)-1].Kind != token.KindBinary {
				seq = append(seq, token.Binary(token.Op(ch)))
				p.pos++
				continue
			}
			return nil, p.errf("unexpected operator %q", ch)
		}
		if len(seq) > 0 && seq[len(seq)-1].Kind != token.KindBinary {
			return nil, p.errf("expected an operator before %q", ch)
		}
		t, err := p.parseTerm(depth)
		if err != nil {
			return nil, err
		}
		if negate {
			negateTerm(t)
			negate = false
		}
		seq = append(seq, t)
	}
	if negate {
		return nil, p.errf("dangling sign")
	}
	if n := len(seq); n > 0 && seq[n-1].Kind == token.KindBinary {
		return nil, p.errf("dangling operator")
	}
	return seq, nil
}

func (p *parser) parseTerm(depth int) (*token.Token, error) {
	ch := p.peek()
	switch {
	case isDigit(ch) || ch == '.':
		num, err := p.scanNumber()
		if err != nil {
			return nil, err
		}
		if !p.eof() {
			if isAlpha(p.peek()) {
				sym := string(p.peek())
				p.pos++
				power, err := p.scanPower()
				if err != nil {
					return nil, err
				}
				return token.Variable(sym, num, power), nil
			}
			if p.peek() == '(' {
				e, err := p.parseBracket(depth)
				if err != nil {
					return nil, err
				}
				e.Coefficient *= num
				return e, nil
			}
		}
		return token.Constant(num), nil
	case isAlpha(ch):
		sym := string(ch)
		p.pos++
		power, err := p.scanPower()
		if err != nil {
			return nil, err
		}
		return token.Variable(sym, 1, power), nil
	case ch == '(':
		return p.parseBracket(depth)
	}
	return nil, p.errf("unexpected character %q", ch)
}

func (p *parser) parseBracket(depth int) (*token.Token, error) {
	p.pos++ // consume '('
	body, err := p.parseLevel(depth + 1)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.eof() || p.peek() != ')' {
		return nil, p.errf("missing ')'")
	}
	p.pos++
	if len(body) == 0 {
		return nil, p.errf("empty brackets")
	}
	e := token.Expression(body)
	power, err := p.scanPower()
	if err != nil {
		return nil, err
	}
	if power != 1 {
		if power < 1 || power != float64(int(power)) {
			return nil, p.errf("bracket power must be a positive integer")
		}
		e.Power = power
	}
	return e, nil
}

func (p *parser) scanNumber() (float64, error) {
	start := p.pos
	dot := false
	for !p.eof() && (isDigit(p.peek()) || p.peek() == '.') {
		if p.peek() == '.' {
			if dot {
				return 0, p.errf("malformed number")
			}
			dot = true
		}
		p.pos++
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, &SyntaxError{Pos: start, Msg: "malformed number"}
	}
	return v, nil
}

// scanPower consumes an optional ^[-]digits suffix and returns the power,
// defaulting to 1.
func (p *parser) scanPower() (float64, error) {
	if p.eof() || p.peek() != '^' {
		return 1, nil
	}
	p.pos++
	sign := 1.0
	if !p.eof() && p.peek() == '-' {
		sign = -1
		p.pos++
	}
	if p.eof() || !(isDigit(p.peek()) || p.peek() == '.') {
		return 0, p.errf("expected a number after '^'")
	}
	v, err := p.scanNumber()
	if err != nil {
		return 0, err
	}
	return sign * v, nil
}

func negateTerm(t *token.Token) {
	switch t.Kind {
	case token.KindConstant:
		t.Value = -t.Value
	case token.KindVariable, token.KindExpression:
		t.Coefficient = -t.Coefficient
	case token.KindBinary:
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
