package reduce

import (
	"errors"
	"fmt"

	"github.com/agenthands/stepmath/pkg/classify"
	"github.com/agenthands/stepmath/pkg/parse"
	"github.com/agenthands/stepmath/pkg/token"
)

// EquationStep is the result record of one equation-level reduction.
type EquationStep struct {
	Left     []*token.Token
	Right    []*token.Token
	Ops      []token.Op
	Output   string
	Frames   [][]*token.Token
	Comments [][]string
}

// AdditionEquation combines like terms with equal effective signs within
// one side, left side first.
func AdditionEquation(left, right []*token.Token) (*EquationStep, error) {
	if out, comment, err := applyAddSub(left, true); err == nil {
		return finishEquation(out, token.CloneSeq(right), comment), nil
	} else if !errors.Is(err, ErrNoReduction) {
		return nil, err
	}
	out, comment, err := applyAddSub(right, true)
	if err != nil {
		return nil, err
	}
	return finishEquation(token.CloneSeq(left), out, comment), nil
}

// SubtractionEquation combines opposite-signed like terms within one side,
// or failing that, eliminates a like pair straddling the equals sign by
// subtracting the matching term from both sides. Constants are eliminated
// from the left, variables from the right, driving toward "ax = c".
func SubtractionEquation(left, right []*token.Token) (*EquationStep, error) {
	if out, comment, err := applyAddSub(left, false); err == nil {
		return finishEquation(out, token.CloneSeq(right), comment), nil
	} else if !errors.Is(err, ErrNoReduction) {
		return nil, err
	}
	if out, comment, err := applyAddSub(right, false); err == nil {
		return finishEquation(token.CloneSeq(left), out, comment), nil
	} else if !errors.Is(err, ErrNoReduction) {
		return nil, err
	}
	l, r, comment, ok := crossEliminate(left, right)
	if !ok {
		return nil, ErrNoReduction
	}
	return finishEquation(l, r, comment), nil
}

// MultiplicationEquation folds the first reducible a*b pair found on either
// side.
func MultiplicationEquation(left, right []*token.Token) (*EquationStep, error) {
	if out, comment, err := applyMul(left); err == nil {
		return finishEquation(out, token.CloneSeq(right), comment), nil
	} else if !errors.Is(err, ErrNoReduction) {
		return nil, err
	}
	out, comment, err := applyMul(right)
	if err != nil {
		return nil, err
	}
	return finishEquation(token.CloneSeq(left), out, comment), nil
}

// DivisionEquation folds the first reducible a/b pair found on either side,
// or divides both sides through by the coefficient of a sole left variable.
func DivisionEquation(left, right []*token.Token) (*EquationStep, error) {
	if out, comment, err := applyDiv(left); err == nil {
		return finishEquation(out, token.CloneSeq(right), comment), nil
	} else if !errors.Is(err, ErrNoReduction) {
		return nil, err
	}
	if out, comment, err := applyDiv(right); err == nil {
		return finishEquation(token.CloneSeq(left), out, comment), nil
	} else if !errors.Is(err, ErrNoReduction) {
		return nil, err
	}
	if len(left) == 1 && left[0].Kind == token.KindVariable &&
		left[0].Coefficient != 0 && left[0].Coefficient != 1 &&
		len(right) == 1 && right[0].Kind == token.KindConstant {
		c := left[0].Coefficient
		l := []*token.Token{token.Variable(left[0].Symbol, 1, left[0].Power)}
		r := []*token.Token{token.Constant(right[0].Value / c)}
		comment := fmt.Sprintf("Dividing both sides by %s", parse.Number(c))
		return finishEquation(l, r, comment), nil
	}
	return nil, ErrNoReduction
}

func finishEquation(left, right []*token.Token, comment string) *EquationStep {
	token.Reindex(left)
	token.Reindex(right)
	return &EquationStep{
		Left:     left,
		Right:    right,
		Ops:      classify.EquationOps(classify.LevelTerms(left), left, classify.LevelTerms(right), right),
		Output:   parse.RenderEquation(left, right),
		Frames:   [][]*token.Token{token.EquationFrame(left, right)},
		Comments: [][]string{{comment}},
	}
}

func crossEliminate(left, right []*token.Token) (outL, outR []*token.Token, comment string, ok bool) {
	for _, a := range classify.LevelTerms(left) {
		for _, b := range classify.LevelTerms(right) {
			if a.Signature() != b.Signature() {
				continue
			}
			outL = token.CloneSeq(left)
			outR = token.CloneSeq(right)
			if a.Kind == token.KindConstant {
				comment = bothSidesComment(a)
				outL = removeTermAt(outL, a.Index)
				if len(outL) == 0 {
					outL = []*token.Token{token.Constant(0)}
				}
				if eff := b.Value - a.Value; eff == 0 {
					outR = removeTermAt(outR, b.Index)
				} else {
					setEffective(outR, b.Index, eff)
				}
			} else {
				comment = bothSidesComment(b)
				outR = removeTermAt(outR, b.Index)
				if eff := a.Value - b.Value; eff == 0 {
					outL = removeTermAt(outL, a.Index)
					if len(outL) == 0 {
						outL = []*token.Token{token.Constant(0)}
					}
				} else {
					setEffective(outL, a.Index, eff)
				}
			}
			return outL, outR, comment, true
		}
	}
	return nil, nil, "", false
}

func bothSidesComment(t classify.Term) string {
	if t.Value < 0 {
		t.Value = -t.Value
		return fmt.Sprintf("Adding %s to both sides", termString(t))
	}
	return fmt.Sprintf("Subtracting %s from both sides", termString(t))
}
