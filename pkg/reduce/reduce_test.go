package reduce_test

import (
	"errors"
	"testing"

	"github.com/agenthands/stepmath/pkg/parse"
	"github.com/agenthands/stepmath/pkg/reduce"
	"github.com/agenthands/stepmath/pkg/token"
)

func mustTokens(t *testing.T, src string) []*token.Token {
	t.Helper()
	seq, err := parse.Tokens(src)
	if err != nil {
		t.Fatalf("Tokens(%q): %v", src, err)
	}
	return seq
}

func TestAddition(t *testing.T) {
	tests := []struct {
		input       string
		want        string
		wantComment string
	}{
		{"2+3", "5", "Adding 2 and 3"},
		{"2x+3x", "5x", "Adding 2x and 3x"},
		{"x+2+3", "x+5", "Adding 2 and 3"},
		{"-2-3", "-5", "Adding -2 and -3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			st, err := reduce.Addition(mustTokens(t, tt.input))
			if err != nil {
				t.Fatalf("Addition: %v", err)
			}
			if st.Output != tt.want {
				t.Errorf("Output = %q, want %q", st.Output, tt.want)
			}
			if len(st.Frames) != 1 || len(st.Comments) != 1 {
				t.Fatalf("step recorded %d frames and %d comment lists, want 1 each",
					len(st.Frames), len(st.Comments))
			}
			if got := st.Comments[0][0]; got != tt.wantComment {
				t.Errorf("comment = %q, want %q", got, tt.wantComment)
			}
		})
	}

	if _, err := reduce.Addition(mustTokens(t, "x+y")); !errors.Is(err, reduce.ErrNoReduction) {
		t.Errorf("unlike terms: err = %v, want ErrNoReduction", err)
	}
}

func TestSubtraction(t *testing.T) {
	tests := []struct {
		input       string
		want        string
		wantComment string
	}{
		{"5-2", "3", "Subtracting 2 from 5"},
		{"2-5", "-3", "Subtracting 5 from 2"},
		{"2x-2x", "0", "Subtracting 2x from 2x"},
		{"x+2-2", "x", "Subtracting 2 from 2"},
		{"5x-2x", "3x", "Subtracting 2x from 5x"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			st, err := reduce.Subtraction(mustTokens(t, tt.input))
			if err != nil {
				t.Fatalf("Subtraction: %v", err)
			}
			if st.Output != tt.want {
				t.Errorf("Output = %q, want %q", st.Output, tt.want)
			}
			if got := st.Comments[0][0]; got != tt.wantComment {
				t.Errorf("comment = %q, want %q", got, tt.wantComment)
			}
		})
	}
}

func TestMultiplication(t *testing.T) {
	tests := []struct {
		input       string
		want        string
		wantComment string
	}{
		{"2*3", "6", "Multiplying 2 and 3"},
		{"2*3+x", "6+x", "Multiplying 2 and 3"},
		{"2*x", "2x", "Multiplying 2 and x"},
		{"x*x", "x^2", "Multiplying x and x"},
		{"2x*3x", "6x^2", "Multiplying 2x and 3x"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			st, err := reduce.Multiplication(mustTokens(t, tt.input))
			if err != nil {
				t.Fatalf("Multiplication: %v", err)
			}
			if st.Output != tt.want {
				t.Errorf("Output = %q, want %q", st.Output, tt.want)
			}
			if got := st.Comments[0][0]; got != tt.wantComment {
				t.Errorf("comment = %q, want %q", got, tt.wantComment)
			}
		})
	}
}

func TestDivision(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"6/2", "3"},
		{"x/x", "1"},
		{"4x/2", "2x"},
		{"6/x", "6x^-1"},
		{"6x^2/2x", "3x"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			st, err := reduce.Division(mustTokens(t, tt.input))
			if err != nil {
				t.Fatalf("Division: %v", err)
			}
			if st.Output != tt.want {
				t.Errorf("Output = %q, want %q", st.Output, tt.want)
			}
		})
	}

	if _, err := reduce.Division(mustTokens(t, "5/0")); !errors.Is(err, reduce.ErrDivisionByZero) {
		t.Errorf("zero divisor: err = %v, want ErrDivisionByZero", err)
	}
}

// A step's availability is recomputed on its own output, not carried over.
func TestStepRecomputesOps(t *testing.T) {
	st, err := reduce.Division(mustTokens(t, "6/2+1+2"))
	if err != nil {
		t.Fatalf("Division: %v", err)
	}
	if st.Output != "3+1+2" {
		t.Fatalf("Output = %q, want %q", st.Output, "3+1+2")
	}
	if len(st.Ops) != 1 || st.Ops[0] != token.OpAdd {
		t.Errorf("Ops = %v, want [+]", st.Ops)
	}
}

func mustSides(t *testing.T, src string) ([]*token.Token, []*token.Token) {
	t.Helper()
	lhs, rhs, isEq, err := parse.Source(src)
	if err != nil || !isEq {
		t.Fatalf("Source(%q): isEq=%v err=%v", src, isEq, err)
	}
	return lhs, rhs
}

func TestSubtractionEquation(t *testing.T) {
	tests := []struct {
		input       string
		want        string
		wantComment string
	}{
		{"2x+4=10", "2x=6", "Subtracting 4 from both sides"},
		{"2x=x+5", "x=5", "Subtracting x from both sides"},
		{"x-2=6", "x=8", "Adding 2 to both sides"},
		{"x+2=2", "x=0", "Subtracting 2 from both sides"},
		// within-side pairs are preferred over crossing the '='
		{"5-2=x", "3=x", "Subtracting 2 from 5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l, r := mustSides(t, tt.input)
			st, err := reduce.SubtractionEquation(l, r)
			if err != nil {
				t.Fatalf("SubtractionEquation: %v", err)
			}
			if st.Output != tt.want {
				t.Errorf("Output = %q, want %q", st.Output, tt.want)
			}
			if got := st.Comments[0][0]; got != tt.wantComment {
				t.Errorf("comment = %q, want %q", got, tt.wantComment)
			}
		})
	}
}

func TestDivisionEquation(t *testing.T) {
	l, r := mustSides(t, "2x=6")
	st, err := reduce.DivisionEquation(l, r)
	if err != nil {
		t.Fatalf("DivisionEquation: %v", err)
	}
	if st.Output != "x=3" {
		t.Errorf("Output = %q, want %q", st.Output, "x=3")
	}
	if got := st.Comments[0][0]; got != "Dividing both sides by 2" {
		t.Errorf("comment = %q", got)
	}
	if len(st.Ops) != 0 {
		t.Errorf("Ops = %v, want none", st.Ops)
	}

	// an in-side quotient is folded before dividing through
	l, r = mustSides(t, "x=6/2")
	st, err = reduce.DivisionEquation(l, r)
	if err != nil {
		t.Fatalf("DivisionEquation: %v", err)
	}
	if st.Output != "x=3" {
		t.Errorf("Output = %q, want %q", st.Output, "x=3")
	}
}

func TestAdditionEquation(t *testing.T) {
	l, r := mustSides(t, "2+3=x")
	st, err := reduce.AdditionEquation(l, r)
	if err != nil {
		t.Fatalf("AdditionEquation: %v", err)
	}
	if st.Output != "5=x" {
		t.Errorf("Output = %q, want %q", st.Output, "5=x")
	}

	l, r = mustSides(t, "x=2+3")
	st, err = reduce.AdditionEquation(l, r)
	if err != nil {
		t.Fatalf("AdditionEquation: %v", err)
	}
	if st.Output != "x=5" {
		t.Errorf("Output = %q, want %q", st.Output, "x=5")
	}
}

func TestMultiplicationEquation(t *testing.T) {
	l, r := mustSides(t, "2*x=6")
	st, err := reduce.MultiplicationEquation(l, r)
	if err != nil {
		t.Fatalf("MultiplicationEquation: %v", err)
	}
	if st.Output != "2x=6" {
		t.Errorf("Output = %q, want %q", st.Output, "2x=6")
	}
}

func TestEquationStepFrames(t *testing.T) {
	l, r := mustSides(t, "2x+4=10")
	st, err := reduce.SubtractionEquation(l, r)
	if err != nil {
		t.Fatalf("SubtractionEquation: %v", err)
	}
	if len(st.Frames) != 1 || len(st.Comments) != 1 {
		t.Fatalf("recorded %d frames and %d comment lists, want 1 each",
			len(st.Frames), len(st.Comments))
	}
	if got := parse.Render(st.Frames[0]); got != "2x=6" {
		t.Errorf("frame = %q, want %q", got, "2x=6")
	}
}

func TestCleanup(t *testing.T) {
	seq := mustTokens(t, "0+x")
	frames := [][]*token.Token{token.CloneSeq(seq)}
	out, frames := reduce.Cleanup(seq, frames)
	if got := parse.Render(out); got != "x" {
		t.Errorf("Cleanup = %q, want %q", got, "x")
	}
	if got := parse.Render(frames[len(frames)-1]); got != "x" {
		t.Errorf("final frame = %q, want the cleaned snapshot", got)
	}

	// a lone zero survives
	seq = mustTokens(t, "0")
	frames = [][]*token.Token{token.CloneSeq(seq)}
	out, frames = reduce.Cleanup(seq, frames)
	if got := parse.Render(out); got != "0" {
		t.Errorf("Cleanup(0) = %q, want %q", got, "0")
	}
	if len(frames) != 1 {
		t.Errorf("unchanged input grew the trail")
	}

	// zero-coefficient variables vanish too
	seq = []*token.Token{
		token.Variable("x", 0, 1),
		token.Binary(token.OpAdd),
		token.Constant(2),
	}
	out, _ = reduce.Cleanup(seq, nil)
	if got := parse.Render(out); got != "2" {
		t.Errorf("Cleanup(0x+2) = %q, want %q", got, "2")
	}
}
