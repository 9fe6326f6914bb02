package simplify

import (
	"fmt"

	"github.com/agenthands/stepmath/pkg/classify"
	"github.com/agenthands/stepmath/pkg/parse"
	"github.com/agenthands/stepmath/pkg/reduce"
	"github.com/agenthands/stepmath/pkg/token"
)

// MoveComment is the fixed comment recorded when leftover right-hand terms
// are relocated across the equals sign.
const MoveComment = "Moving the rest of variables/constants to LHS"

// EquationResult is what an equation simplification hands to the
// presentation layer. Right is empty whenever the move-across transform
// ran; the rendered output then shows "LHS=0".
type EquationResult struct {
	Left     []*token.Token
	Right    []*token.Token
	Ops      []token.Op
	Output   string
	Frames   [][]*token.Token
	Comments [][]string
}

// Equation reduces both sides of "left = right" with the equation-flavored
// fixpoint loop, then relocates any unresolved right-hand tokens across the
// equals sign. The move snapshot and its comment are recorded only when a
// move actually occurred.
func Equation(left, right []*token.Token) (*EquationResult, error) {
	l := token.CloneSeq(left)
	r := token.CloneSeq(right)
	token.Reindex(l)
	token.Reindex(r)
	tr := &Trail{}
	tr.Push(token.EquationFrame(l, r), nil)

	ops := classify.EquationOps(classify.LevelTerms(l), l, classify.LevelTerms(r), r)
	for steps := 0; len(ops) > 0; steps++ {
		if steps >= maxLoopSteps {
			return nil, fmt.Errorf("%w: %d steps reducing %q",
				ErrNonConvergent, maxLoopSteps, parse.RenderEquation(l, r))
		}
		var st *reduce.EquationStep
		var err error
		switch highest(ops) {
		case token.OpDiv:
			st, err = reduce.DivisionEquation(token.CloneSeq(l), token.CloneSeq(r))
		case token.OpMul:
			st, err = reduce.MultiplicationEquation(token.CloneSeq(l), token.CloneSeq(r))
		case token.OpAdd:
			st, err = reduce.AdditionEquation(token.CloneSeq(l), token.CloneSeq(r))
		case token.OpSub:
			st, err = reduce.SubtractionEquation(token.CloneSeq(l), token.CloneSeq(r))
		}
		if err != nil {
			return nil, err
		}
		l, r, ops = st.Left, st.Right, st.Ops
		tr.Splice(st.Frames, st.Comments)
	}

	if len(r) > 0 {
		l, r = moveAcross(l, r)
		token.Reindex(l)
		tr.Push(token.EquationFrame(l, r), []string{MoveComment})
	}

	return &EquationResult{
		Left:     l,
		Right:    r,
		Ops:      ops,
		Output:   parse.RenderEquation(l, r),
		Frames:   tr.Frames,
		Comments: tr.Comments,
	}, nil
}

// moveAcross appends every remaining right-hand token to the left side,
// mirroring algebraic relocation across the equals sign: the first moved
// token gets a synthesized '-' unless it is already an operator, every
// moved '+'/'-' flips, and a moved negative term collapses the double
// negative into the operator before it.
func moveAcross(left, right []*token.Token) ([]*token.Token, []*token.Token) {
	if len(left) == 0 {
		return right, nil
	}
	for i, t := range right {
		if i == 0 && t.Kind != token.KindBinary {
			left = append(left, token.Binary(token.OpSub))
		}
		switch t.Kind {
		case token.KindBinary:
			switch t.Op {
			case token.OpAdd:
				t.Op = token.OpSub
			case token.OpSub:
				t.Op = token.OpAdd
			}
		case token.KindConstant:
			if t.Value < 0 {
				collapseSign(left, t)
			}
		case token.KindVariable, token.KindExpression:
			if t.Coefficient < 0 {
				collapseSign(left, t)
			}
		}
		left = append(left, t)
	}
	return left, nil
}

// collapseSign folds a negative moved term into the trailing operator on
// the growing left side: "-(-n)" becomes "+n" and "+(-n)" becomes "-n".
func collapseSign(left []*token.Token, t *token.Token) {
	last := left[len(left)-1]
	if !last.IsSign() {
		return
	}
	if last.Op == token.OpSub {
		last.Op = token.OpAdd
	} else {
		last.Op = token.OpSub
	}
	switch t.Kind {
	case token.KindConstant:
		t.Value = -t.Value
	case token.KindVariable, token.KindExpression:
		t.Coefficient = -t.Coefficient
	case token.KindBinary:
	}
}
