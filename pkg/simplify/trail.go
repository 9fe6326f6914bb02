package simplify

import "github.com/agenthands/stepmath/pkg/token"

// Trail is the pair of parallel ordered sequences handed to the
// presentation layer: full-tree snapshots and per-step comment lists.
// Frames[i] and Comments[i] stay index-aligned; frame 0 is the pristine
// input with an empty comment list.
//
// Reducers snapshot only the states they produce; the state a step started
// from is already the last recorded frame, so appending a step's frames
// keeps exactly one frame per state, with no duplicate or stale frame
// between two consecutive steps.
type Trail struct {
	Frames   [][]*token.Token
	Comments [][]string
}

// Push records one snapshot with its comment list.
func (t *Trail) Push(frame []*token.Token, comments []string) {
	if comments == nil {
		comments = []string{}
	}
	t.Frames = append(t.Frames, frame)
	t.Comments = append(t.Comments, comments)
}

// Splice appends another recorder's frames and comments in order.
func (t *Trail) Splice(frames [][]*token.Token, comments [][]string) {
	t.Frames = append(t.Frames, frames...)
	t.Comments = append(t.Comments, comments...)
}

// Len returns the number of recorded snapshots.
func (t *Trail) Len() int { return len(t.Frames) }
