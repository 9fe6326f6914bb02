package parse

import (
	"strconv"
	"strings"

	"github.com/agenthands/stepmath/pkg/token"
)

// Render serializes a token sequence to its canonical string form. The
// output round-trips through Tokens.
func Render(seq []*token.Token) string {
	var b strings.Builder
	for _, t := range seq {
		renderToken(&b, t)
	}
	return b.String()
}

// RenderEquation serializes "LHS=RHS", padding an empty right side with 0.
func RenderEquation(left, right []*token.Token) string {
	if len(right) == 0 {
		return Render(left) + "=0"
	}
	return Render(left) + "=" + Render(right)
}

// RenderOne serializes a single token.
func RenderOne(t *token.Token) string {
	var b strings.Builder
	renderToken(&b, t)
	return b.String()
}

func renderToken(b *strings.Builder, t *token.Token) {
	switch t.Kind {
	case token.KindConstant:
		b.WriteString(Number(t.Value))
	case token.KindVariable:
		writeCoefficient(b, t.Coefficient)
		b.WriteString(t.Symbol)
		if t.Power != 1 {
			b.WriteByte('^')
			b.WriteString(Number(t.Power))
		}
	case token.KindBinary:
		b.WriteByte(byte(t.Op))
	case token.KindExpression:
		writeCoefficient(b, t.Coefficient)
		b.WriteByte('(')
		for _, inner := range t.Body {
			renderToken(b, inner)
		}
		b.WriteByte(')')
		if t.Power != 1 {
			b.WriteByte('^')
			b.WriteString(Number(t.Power))
		}
	}
}

func writeCoefficient(b *strings.Builder, c float64) {
	switch c {
	case 1:
	case -1:
		b.WriteByte('-')
	default:
		b.WriteString(Number(c))
	}
}

// Number formats a numeric value without an exponent so the renderer's
// output stays parseable.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
