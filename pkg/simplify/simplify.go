// Package simplify is the orchestration engine: the fixpoint loops that
// repeatedly select and apply an elementary reduction at one nesting level,
// the recursive descent that normalizes bracketed sub-expressions, and the
// equation coordinator that reduces both sides and relocates leftover terms
// across the equals sign. All work happens on deep copies; callers always
// retain their own untouched sequences.
package simplify

import (
	"errors"
	"fmt"

	"github.com/agenthands/stepmath/pkg/classify"
	"github.com/agenthands/stepmath/pkg/parse"
	"github.com/agenthands/stepmath/pkg/reduce"
	"github.com/agenthands/stepmath/pkg/token"
)

const (
	// maxLoopSteps bounds every fixpoint loop. The reducers guarantee
	// strictly fewer reducible operators after each step, but a budget with
	// a diagnosable failure beats trusting that unconditionally.
	maxLoopSteps = 1000
	// maxFoldScans bounds the bracket-multiplication folding pass.
	maxFoldScans = 50
)

var (
	// ErrNonConvergent means a fixpoint loop exhausted its step budget.
	ErrNonConvergent = errors.New("simplification did not converge")
	// ErrFoldDiverged means bracket folding exhausted its scan budget.
	ErrFoldDiverged = errors.New("bracket folding did not converge")
)

// Result is what a simplification hands to the presentation layer: the
// final sequence, the remaining availability (empty at fixpoint), the
// rendered string, and the two parallel trails.
type Result struct {
	Tokens   []*token.Token
	Ops      []token.Op
	Output   string
	Frames   [][]*token.Token
	Comments [][]string
}

// Level runs the fixpoint loop over one token sequence: while the
// classifier reports a reducible operator, apply the highest-priority one
// on a fresh copy and splice its trail in. A cosmetic cleanup pass runs on
// the final state.
func Level(seq []*token.Token) (*Result, error) {
	cur := token.CloneSeq(seq)
	token.Reindex(cur)
	tr := &Trail{}
	tr.Push(token.CloneSeq(cur), nil)
	ops := classify.ExpressionOps(classify.LevelTerms(cur), cur)
	for steps := 0; len(ops) > 0; steps++ {
		if steps >= maxLoopSteps {
			return nil, fmt.Errorf("%w: %d steps reducing %q", ErrNonConvergent, maxLoopSteps, parse.Render(cur))
		}
		var st *reduce.Step
		var err error
		switch highest(ops) {
		case token.OpDiv:
			st, err = reduce.Division(token.CloneSeq(cur))
		case token.OpMul:
			st, err = reduce.Multiplication(token.CloneSeq(cur))
		case token.OpAdd:
			st, err = reduce.Addition(token.CloneSeq(cur))
		case token.OpSub:
			st, err = reduce.Subtraction(token.CloneSeq(cur))
		}
		if err != nil {
			return nil, err
		}
		cur, ops = st.Tokens, st.Ops
		tr.Splice(st.Frames, st.Comments)
	}
	cur, tr.Frames = reduce.Cleanup(cur, tr.Frames)
	return &Result{
		Tokens:   cur,
		Ops:      ops,
		Output:   parse.Render(cur),
		Frames:   tr.Frames,
		Comments: tr.Comments,
	}, nil
}

// highest picks the present operator with the highest priority: division
// and multiplication can create new combinable terms, so addition and
// subtraction come last.
func highest(ops []token.Op) token.Op {
	for _, p := range token.Priority {
		for _, o := range ops {
			if o == p {
				return p
			}
		}
	}
	return ops[0]
}
