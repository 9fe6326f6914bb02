// Package classify decides which operator classes are currently reducible
// at a nesting level. Availability is derived from the reducer contracts:
// an operator is reported only when the matching reducer can make strict
// progress, so every fixpoint loop that consults this package terminates
// when reducers uphold their side.
package classify

import (
	"strconv"

	"github.com/agenthands/stepmath/pkg/token"
)

// Term is one additive term at a single nesting level: a Constant or
// Variable that is not an operand of '*' or '/'. Value carries the
// effective sign, i.e. the stored magnitude with the sign of the preceding
// operator applied.
type Term struct {
	Index  int
	Kind   token.Kind
	Symbol string
	Power  float64
	Value  float64
}

// Signature identifies like terms: all constants share one signature,
// variables combine only with the same symbol and power.
func (t Term) Signature() string {
	if t.Kind == token.KindConstant {
		return "#"
	}
	return t.Symbol + "^" + strconv.FormatFloat(t.Power, 'f', -1, 64)
}

// LevelTerms inventories the additive terms of one level. Bracketed
// sub-expressions and operands of '*' or '/' are not additive and are
// skipped.
func LevelTerms(seq []*token.Token) []Term {
	var out []Term
	for i, t := range seq {
		if t.Kind != token.KindConstant && t.Kind != token.KindVariable {
			continue
		}
		if i > 0 && (seq[i-1].IsBinary(token.OpMul) || seq[i-1].IsBinary(token.OpDiv)) {
			continue
		}
		if i+1 < len(seq) && (seq[i+1].IsBinary(token.OpMul) || seq[i+1].IsBinary(token.OpDiv)) {
			continue
		}
		sign := 1.0
		if i > 0 && seq[i-1].IsBinary(token.OpSub) {
			sign = -1
		}
		m, _ := t.Magnitude()
		out = append(out, Term{
			Index:  i,
			Kind:   t.Kind,
			Symbol: t.Symbol,
			Power:  t.Power,
			Value:  sign * m,
		})
	}
	return out
}

// Reducible reports whether the '*' or '/' reducer can fold the operand
// pair a∘b. Divisors that turn out to be zero are still reported so the
// reducer can surface a division-by-zero failure instead of silently
// stalling.
func Reducible(op token.Op, a, b *token.Token) bool {
	if a == nil || b == nil {
		return false
	}
	operands := func(t *token.Token) bool {
		return t.Kind == token.KindConstant || t.Kind == token.KindVariable
	}
	if !operands(a) || !operands(b) {
		return false
	}
	if a.Kind == token.KindVariable && b.Kind == token.KindVariable && a.Symbol != b.Symbol {
		return false
	}
	return op == token.OpMul || op == token.OpDiv
}

// ExpressionOps returns the operator symbols currently reducible at this
// level, in priority order (division, multiplication, addition,
// subtraction). terms must be LevelTerms(seq).
func ExpressionOps(terms []Term, seq []*token.Token) []token.Op {
	avail := map[token.Op]bool{}
	for i := 1; i+1 < len(seq); i++ {
		if seq[i].Kind != token.KindBinary {
			continue
		}
		if (seq[i].Op == token.OpMul || seq[i].Op == token.OpDiv) && Reducible(seq[i].Op, seq[i-1], seq[i+1]) {
			avail[seq[i].Op] = true
		}
	}
	add, sub := pairOps(terms)
	avail[token.OpAdd] = add
	avail[token.OpSub] = sub
	return ordered(avail)
}

// EquationOps classifies jointly over both sides: each side's own
// reductions, cross-side like-term elimination (reported as '-'), and
// dividing both sides through by a sole left variable's coefficient.
func EquationOps(lTerms []Term, left []*token.Token, rTerms []Term, right []*token.Token) []token.Op {
	avail := map[token.Op]bool{}
	for _, op := range ExpressionOps(lTerms, left) {
		avail[op] = true
	}
	for _, op := range ExpressionOps(rTerms, right) {
		avail[op] = true
	}
	for _, a := range lTerms {
		for _, b := range rTerms {
			if a.Signature() == b.Signature() {
				avail[token.OpSub] = true
			}
		}
	}
	if divideThrough(left, right) {
		avail[token.OpDiv] = true
	}
	return ordered(avail)
}

// divideThrough reports the "ax = c, a != 1" shape.
func divideThrough(left, right []*token.Token) bool {
	return len(left) == 1 && left[0].Kind == token.KindVariable &&
		left[0].Coefficient != 0 && left[0].Coefficient != 1 &&
		len(right) == 1 && right[0].Kind == token.KindConstant
}

func pairOps(terms []Term) (add, sub bool) {
	for i := 0; i < len(terms); i++ {
		for j := i + 1; j < len(terms); j++ {
			if terms[i].Signature() != terms[j].Signature() {
				continue
			}
			if terms[i].Value*terms[j].Value >= 0 {
				add = true
			} else {
				sub = true
			}
		}
	}
	return add, sub
}

func ordered(avail map[token.Op]bool) []token.Op {
	var ops []token.Op
	for _, op := range token.Priority {
		if avail[op] {
			ops = append(ops, op)
		}
	}
	return ops
}

// IsEquation reports whether the pair forms a well-formed two-sided
// equation: both sides non-empty and each a valid level sequence.
func IsEquation(left, right []*token.Token) bool {
	return len(left) > 0 && len(right) > 0 && Valid(left) && Valid(right)
}

// Valid checks the level invariant recursively: operands alternate with
// '+','-','*','/' operators, the sequence starts and ends on an operand,
// and bracket bodies satisfy the same shape.
func Valid(seq []*token.Token) bool {
	if len(seq) == 0 {
		return false
	}
	wantOperand := true
	for _, t := range seq {
		if wantOperand {
			switch t.Kind {
			case token.KindConstant, token.KindVariable:
			case token.KindExpression:
				if !Valid(t.Body) {
					return false
				}
			case token.KindBinary:
				return false
			}
		} else {
			if t.Kind != token.KindBinary || t.Op == token.OpEq {
				return false
			}
		}
		wantOperand = !wantOperand
	}
	return !wantOperand
}
