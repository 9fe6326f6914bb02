// Package reduce implements the elementary reducers the fixpoint loops
// invoke: addition, subtraction, multiplication and division, each in an
// expression flavor (one token sequence) and an equation flavor (both
// sides). Every reducer takes an owned copy, applies exactly one reduction,
// and returns a named result record carrying the new state, the updated
// availability, the rendered string, and one snapshot with one comment.
package reduce

import (
	"errors"
	"fmt"

	"github.com/agenthands/stepmath/pkg/classify"
	"github.com/agenthands/stepmath/pkg/parse"
	"github.com/agenthands/stepmath/pkg/token"
)

var (
	// ErrDivisionByZero reports a division whose divisor is the constant 0.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNoReduction means the classifier reported an operator this level
	// cannot actually reduce; it indicates a classifier/reducer mismatch.
	ErrNoReduction = errors.New("no reducible operation at this level")
)

// Step is the result record of one expression-level reduction.
type Step struct {
	Tokens   []*token.Token
	Ops      []token.Op
	Output   string
	Frames   [][]*token.Token
	Comments [][]string
}

// Addition combines the first pair of like terms with equal effective signs.
func Addition(seq []*token.Token) (*Step, error) {
	out, comment, err := applyAddSub(seq, true)
	if err != nil {
		return nil, err
	}
	return finish(out, comment), nil
}

// Subtraction combines the first pair of like terms with opposite effective
// signs, dropping both when they cancel exactly.
func Subtraction(seq []*token.Token) (*Step, error) {
	out, comment, err := applyAddSub(seq, false)
	if err != nil {
		return nil, err
	}
	return finish(out, comment), nil
}

// Multiplication folds the first reducible a*b operand pair into its product.
func Multiplication(seq []*token.Token) (*Step, error) {
	out, comment, err := applyMul(seq)
	if err != nil {
		return nil, err
	}
	return finish(out, comment), nil
}

// Division folds the first reducible a/b operand pair into its quotient.
func Division(seq []*token.Token) (*Step, error) {
	out, comment, err := applyDiv(seq)
	if err != nil {
		return nil, err
	}
	return finish(out, comment), nil
}

func finish(out []*token.Token, comment string) *Step {
	token.Reindex(out)
	return &Step{
		Tokens:   out,
		Ops:      classify.ExpressionOps(classify.LevelTerms(out), out),
		Output:   parse.Render(out),
		Frames:   [][]*token.Token{token.CloneSeq(out)},
		Comments: [][]string{{comment}},
	}
}

func applyAddSub(seq []*token.Token, sameSign bool) ([]*token.Token, string, error) {
	terms := classify.LevelTerms(seq)
	ai, bi := -1, -1
scan:
	for i := 0; i < len(terms); i++ {
		for j := i + 1; j < len(terms); j++ {
			if terms[i].Signature() != terms[j].Signature() {
				continue
			}
			match := terms[i].Value*terms[j].Value >= 0
			if match == sameSign {
				ai, bi = i, j
				break scan
			}
		}
	}
	if ai < 0 {
		return nil, "", ErrNoReduction
	}
	a, b := terms[ai], terms[bi]
	var comment string
	if sameSign {
		comment = fmt.Sprintf("Adding %s and %s", termString(a), termString(b))
	} else {
		pos, neg := a, b
		if pos.Value < 0 {
			pos, neg = b, a
		}
		neg.Value = -neg.Value
		comment = fmt.Sprintf("Subtracting %s from %s", termString(neg), termString(pos))
	}
	out := token.CloneSeq(seq)
	eff := a.Value + b.Value
	if eff == 0 {
		out = removeTermAt(out, b.Index)
		out = removeTermAt(out, a.Index)
		if len(out) == 0 {
			out = []*token.Token{token.Constant(0)}
		}
	} else {
		setEffective(out, a.Index, eff)
		out = removeTermAt(out, b.Index)
	}
	return out, comment, nil
}

func applyMul(seq []*token.Token) ([]*token.Token, string, error) {
	i := patternAt(seq, token.OpMul)
	if i < 0 {
		return nil, "", ErrNoReduction
	}
	a, b := seq[i-1], seq[i+1]
	comment := fmt.Sprintf("Multiplying %s and %s", parse.RenderOne(a), parse.RenderOne(b))
	out := splice3(seq, i, token.Mul(a, b))
	token.NormalizeSigns(out)
	return out, comment, nil
}

func applyDiv(seq []*token.Token) ([]*token.Token, string, error) {
	i := patternAt(seq, token.OpDiv)
	if i < 0 {
		return nil, "", ErrNoReduction
	}
	a, b := seq[i-1], seq[i+1]
	if m, ok := b.Magnitude(); ok && m == 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrDivisionByZero, parse.Render(seq))
	}
	comment := fmt.Sprintf("Dividing %s by %s", parse.RenderOne(a), parse.RenderOne(b))
	out := splice3(seq, i, divide(a, b))
	token.NormalizeSigns(out)
	return out, comment, nil
}

func divide(a, b *token.Token) *token.Token {
	switch {
	case a.Kind == token.KindConstant && b.Kind == token.KindConstant:
		return token.Constant(a.Value / b.Value)
	case a.Kind == token.KindVariable && b.Kind == token.KindConstant:
		return token.Variable(a.Symbol, a.Coefficient/b.Value, a.Power)
	case a.Kind == token.KindConstant && b.Kind == token.KindVariable:
		return token.Variable(b.Symbol, a.Value/b.Coefficient, -b.Power)
	default: // same-symbol variables per classify.Reducible
		ratio := a.Coefficient / b.Coefficient
		if dp := a.Power - b.Power; dp != 0 {
			return token.Variable(a.Symbol, ratio, dp)
		}
		return token.Constant(ratio)
	}
}

// patternAt finds the first i with a reducible operand pair around a Binary
// op at seq[i].
func patternAt(seq []*token.Token, op token.Op) int {
	for i := 1; i+1 < len(seq); i++ {
		if seq[i].IsBinary(op) && classify.Reducible(op, seq[i-1], seq[i+1]) {
			return i
		}
	}
	return -1
}

// splice3 replaces the (operand, operator, operand) triplet around index i
// with a single product token.
func splice3(seq []*token.Token, i int, product *token.Token) []*token.Token {
	out := make([]*token.Token, 0, len(seq)-2)
	out = append(out, token.CloneSeq(seq[:i-1])...)
	out = append(out, product)
	out = append(out, token.CloneSeq(seq[i+2:])...)
	return out
}

// setEffective stores an effective signed value into the term at idx,
// normalizing the sign into the preceding '+'/'-' operator when present.
func setEffective(seq []*token.Token, idx int, eff float64) {
	if idx > 0 && seq[idx-1].IsSign() {
		if eff < 0 {
			seq[idx-1].Op = token.OpSub
			eff = -eff
		} else {
			seq[idx-1].Op = token.OpAdd
		}
	}
	seq[idx].SetMagnitude(eff)
}

// removeTermAt deletes the term at idx together with its preceding operator.
// When the first term goes, a '-' left at the head is folded into the new
// leading term's sign.
func removeTermAt(seq []*token.Token, idx int) []*token.Token {
	if idx > 0 {
		return append(seq[:idx-1], seq[idx+1:]...)
	}
	out := seq[1:]
	if len(out) > 1 && out[0].IsSign() {
		if out[0].Op == token.OpSub {
			t := out[1]
			if m, ok := t.Magnitude(); ok {
				t.SetMagnitude(-m)
			} else if t.Kind == token.KindExpression {
				t.Coefficient = -t.Coefficient
			}
		}
		out = out[1:]
	}
	return out
}

func termString(t classify.Term) string {
	if t.Kind == token.KindConstant {
		return parse.RenderOne(token.Constant(t.Value))
	}
	return parse.RenderOne(token.Variable(t.Symbol, t.Value, t.Power))
}
