package simplify

import (
	"fmt"

	"github.com/agenthands/stepmath/pkg/parse"
	"github.com/agenthands/stepmath/pkg/token"
)

// Expression is the top-level entry point: frame 0 captures the pristine
// input, the bracket passes normalize sub-expressions everywhere in the
// tree, and the fixpoint loop runs once more at the top level. The level
// loop's own entry frame is dropped when it duplicates the state already
// recorded, so no stale frame sits between two stages.
func Expression(seq []*token.Token) (*Result, error) {
	orig := token.CloneSeq(seq)
	token.Reindex(orig)
	tr := &Trail{}
	tr.Push(token.CloneSeq(orig), nil)

	toks, frames, comments, err := passes(orig)
	if err != nil {
		return nil, err
	}
	tr.Splice(frames, comments)

	lv, err := Level(toks)
	if err != nil {
		return nil, err
	}
	spliceLevel(tr, lv, toks)

	return &Result{
		Tokens:   lv.Tokens,
		Ops:      lv.Ops,
		Output:   lv.Output,
		Frames:   tr.Frames,
		Comments: tr.Comments,
	}, nil
}

// passes runs the two bracket passes over one level.
//
// Pass A folds every (operand, '*', bracket) triplet: both operands are
// fully reduced, multiplied with token-level semantics, and the triplet is
// replaced by the single product. The scan restarts after each fold since
// positions shifted, and is bounded by maxFoldScans.
//
// Pass B walks the folded sequence, fully reduces every remaining bracket
// depth-first, and splices its body into the output with the sign of the
// preceding operator distributed over it. The concatenation is
// re-normalized by a round trip through the serializer and parser.
func passes(seq []*token.Token) ([]*token.Token, [][]*token.Token, [][]string, error) {
	toks := token.CloneSeq(seq)
	tr := &Trail{}

	for scans := 0; ; scans++ {
		if scans >= maxFoldScans {
			return nil, nil, nil, fmt.Errorf("%w: %d scans over %q", ErrFoldDiverged, maxFoldScans, parse.Render(toks))
		}
		folded := false
		for i := 2; i < len(toks); i++ {
			if toks[i].Kind != token.KindExpression || !toks[i-1].IsBinary(token.OpMul) {
				continue
			}
			var err error
			if toks[i], err = reduceBracket(toks[i]); err != nil {
				return nil, nil, nil, err
			}
			if toks[i-2].Kind == token.KindExpression {
				if toks[i-2], err = reduceBracket(toks[i-2]); err != nil {
					return nil, nil, nil, err
				}
			}
			comment := fmt.Sprintf("Multiplying %s and %s",
				parse.RenderOne(toks[i-2]), parse.RenderOne(toks[i]))
			prod := token.Mul(toks[i-2], toks[i])
			if prod.Kind == token.KindExpression {
				if prod, err = reduceBracket(prod); err != nil {
					return nil, nil, nil, err
				}
			}
			next := make([]*token.Token, 0, len(toks)-2)
			next = append(next, toks[:i-2]...)
			next = append(next, prod)
			next = append(next, toks[i+1:]...)
			toks = next
			token.Reindex(toks)
			tr.Push(token.CloneSeq(toks), []string{comment})
			folded = true
			break
		}
		if !folded {
			break
		}
	}

	var out []*token.Token
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.Kind != token.KindExpression {
			out = append(out, t.Clone())
			continue
		}
		if mulDivNeighbor(toks, i) {
			// the bracket stays a bracket; reduce its body in place
			rb, err := reduceBracket(t)
			if err != nil {
				return nil, nil, nil, err
			}
			out = append(out, rb)
			continue
		}
		inner, frames, comments, err := passes(t.Body)
		if err != nil {
			return nil, nil, nil, err
		}
		tr.Splice(frames, comments)
		lv, err := Level(inner)
		if err != nil {
			return nil, nil, nil, err
		}
		spliceLevel(tr, lv, inner)

		reduced := token.Expression(lv.Tokens)
		reduced.Coefficient, reduced.Power = t.Coefficient, t.Power
		body, err := flattenBracket(reduced)
		if err != nil {
			return nil, nil, nil, err
		}
		switch {
		case len(out) == 0:
			out = body
		case out[len(out)-1].IsBinary(token.OpAdd):
			out = append(out, body...)
		case out[len(out)-1].IsBinary(token.OpSub):
			// distribute the unary minus over the whole bracket
			for _, bt := range body {
				if bt.IsSign() {
					if bt.Op == token.OpAdd {
						bt.Op = token.OpSub
					} else {
						bt.Op = token.OpAdd
					}
				}
			}
			if leadingNegative(body) {
				// double-negative collapse
				out[len(out)-1].Op = token.OpAdd
				negateLeading(body)
			}
			out = append(out, body...)
		default:
			out = append(out, token.Expression(body))
		}
	}
	token.NormalizeSigns(out)

	rt, err := parse.Tokens(parse.Render(out))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("renormalizing %q: %w", parse.Render(out), err)
	}
	return rt, tr.Frames, tr.Comments, nil
}

// spliceLevel appends a level result's trail, dropping the loop's entry
// frame only when it duplicates the state the loop started from. The entry
// frame stops being a duplicate when the cleanup pass rewrote it, and the
// trail must still show that final state.
func spliceLevel(tr *Trail, lv *Result, entry []*token.Token) {
	frames, comments := lv.Frames, lv.Comments
	if len(frames) > 0 && token.EqualSeq(frames[0], entry) {
		frames, comments = frames[1:], comments[1:]
	}
	tr.Splice(frames, comments)
}

// reduceBracket fully reduces a bracket token for use as a fold operand:
// its body goes through both passes and the level loop, and any non-unit
// power or coefficient is resolved away. Sub-trails are not recorded; the
// fold itself contributes the snapshot.
func reduceBracket(t *token.Token) (*token.Token, error) {
	inner, _, _, err := passes(t.Body)
	if err != nil {
		return nil, err
	}
	lv, err := Level(inner)
	if err != nil {
		return nil, err
	}
	e := token.Expression(lv.Tokens)
	e.Coefficient, e.Power = t.Coefficient, t.Power
	flat, err := flattenBracket(e)
	if err != nil {
		return nil, err
	}
	if len(flat) == 1 {
		return flat[0], nil
	}
	return token.Expression(flat), nil
}

// flattenBracket resolves a reduced bracket's own power and coefficient and
// returns the splice-ready body tokens. Positive integral powers expand by
// repeated bracket multiplication; the parser rejects other bracket powers
// upstream.
func flattenBracket(e *token.Token) ([]*token.Token, error) {
	cur := e
	if cur.Power != 1 {
		n := int(cur.Power)
		if float64(n) != cur.Power || n < 1 {
			return nil, fmt.Errorf("unsupported bracket power %s", parse.Number(cur.Power))
		}
		base := cur.Clone()
		base.Coefficient, base.Power = 1, 1
		acc := base.Clone()
		for k := 1; k < n; k++ {
			prod := token.Mul(acc, base)
			if prod.Kind == token.KindExpression {
				lv, err := Level(prod.Body)
				if err != nil {
					return nil, err
				}
				prod = token.Expression(lv.Tokens)
			}
			acc = prod
		}
		coeff := cur.Coefficient
		if acc.Kind == token.KindExpression {
			acc.Coefficient = coeff
		} else if m, ok := acc.Magnitude(); ok {
			acc.SetMagnitude(m * coeff)
		}
		cur = acc
	}
	if cur.Kind != token.KindExpression {
		return []*token.Token{cur}, nil
	}
	body := token.CloneSeq(cur.Body)
	if cur.Coefficient != 1 {
		scaled := token.Mul(token.Constant(cur.Coefficient), token.Expression(body))
		if scaled.Kind == token.KindExpression {
			body = scaled.Body
		} else {
			body = []*token.Token{scaled}
		}
	}
	return body, nil
}

func mulDivNeighbor(seq []*token.Token, i int) bool {
	if i > 0 && (seq[i-1].IsBinary(token.OpMul) || seq[i-1].IsBinary(token.OpDiv)) {
		return true
	}
	return i+1 < len(seq) && (seq[i+1].IsBinary(token.OpMul) || seq[i+1].IsBinary(token.OpDiv))
}

func leadingNegative(seq []*token.Token) bool {
	if len(seq) == 0 {
		return false
	}
	if m, ok := seq[0].Magnitude(); ok {
		return m < 0
	}
	return seq[0].Kind == token.KindExpression && seq[0].Coefficient < 0
}

func negateLeading(seq []*token.Token) {
	if len(seq) == 0 {
		return
	}
	if m, ok := seq[0].Magnitude(); ok {
		seq[0].SetMagnitude(-m)
		return
	}
	if seq[0].Kind == token.KindExpression {
		seq[0].Coefficient = -seq[0].Coefficient
	}
}
