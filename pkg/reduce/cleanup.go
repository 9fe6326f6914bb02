package reduce

import (
	"github.com/agenthands/stepmath/pkg/classify"
	"github.com/agenthands/stepmath/pkg/token"
)

// Cleanup is the cosmetic pass run after a level reaches fixpoint:
// vanishing terms (zero constants, zero-coefficient variables) are dropped
// while other tokens remain, and an emptied sequence collapses to the
// constant 0. When the state changed, the trail's final frame is replaced
// with the cleaned snapshot so no stale frame survives.
func Cleanup(seq []*token.Token, frames [][]*token.Token) ([]*token.Token, [][]*token.Token) {
	out := token.CloneSeq(seq)
	changed := false
	for len(out) > 1 {
		idx := -1
		for _, t := range classify.LevelTerms(out) {
			if t.Value == 0 {
				idx = t.Index
				break
			}
		}
		if idx < 0 {
			break
		}
		out = removeTermAt(out, idx)
		changed = true
	}
	if len(out) == 0 {
		out = []*token.Token{token.Constant(0)}
		changed = true
	}
	if !changed {
		return out, frames
	}
	token.Reindex(out)
	if len(frames) > 0 {
		frames = append(frames[:len(frames)-1], token.CloneSeq(out))
	}
	return out, frames
}
