package classify_test

import (
	"testing"

	"github.com/agenthands/stepmath/pkg/classify"
	"github.com/agenthands/stepmath/pkg/parse"
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

func opsEqual(a, b []token.Op) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLevelTerms(t *testing.T) {
	seq := mustTokens(t, "2x-3+4*x-(y+1)")
	terms := classify.LevelTerms(seq)

	// 4 and the x after it are '*' operands; the bracket is never additive.
	if len(terms) != 2 {
		t.Fatalf("got %d terms, want 2", len(terms))
	}
	if terms[0].Symbol != "x" || terms[0].Value != 2 {
		t.Errorf("first term = %+v, want 2x", terms[0])
	}
	if terms[1].Kind != token.KindConstant || terms[1].Value != -3 {
		t.Errorf("second term = %+v, want effective -3", terms[1])
	}
}

func TestTermSignature(t *testing.T) {
	seq := mustTokens(t, "2+3x^2")
	terms := classify.LevelTerms(seq)
	if got := terms[0].Signature(); got != "#" {
		t.Errorf("constant signature = %q, want %q", got, "#")
	}
	if got := terms[1].Signature(); got != "x^2" {
		t.Errorf("variable signature = %q, want %q", got, "x^2")
	}
}

func TestExpressionOps(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Op
	}{
		{"2+3", []token.Op{token.OpAdd}},
		{"2-3", []token.Op{token.OpSub}},
		{"2+3-4", []token.Op{token.OpAdd, token.OpSub}},
		{"2*3", []token.Op{token.OpMul}},
		{"6/2", []token.Op{token.OpDiv}},
		{"6/2+1+2", []token.Op{token.OpDiv, token.OpAdd}},
		{"2x+3x", []token.Op{token.OpAdd}},
		{"2x-3x", []token.Op{token.OpSub}},
		{"x*x", []token.Op{token.OpMul}},
		{"x/x", []token.Op{token.OpDiv}},
		// unlike terms and unlike symbols never reduce
		{"x+y", nil},
		{"x+2", nil},
		{"x*y", nil},
		{"x^2+x", nil},
		// zero divisor is still reported; the reducer surfaces the error
		{"5/0", []token.Op{token.OpDiv}},
		// bracket operands block '*'
		{"2*(x+1)", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			seq := mustTokens(t, tt.input)
			got := classify.ExpressionOps(classify.LevelTerms(seq), seq)
			if !opsEqual(got, tt.want) {
				t.Errorf("ExpressionOps(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEquationOps(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Op
	}{
		// cross-side constant pair
		{"2x+4=10", []token.Op{token.OpSub}},
		// cross-side variable pair
		{"2x=x+5", []token.Op{token.OpSub}},
		// ax = c divides through
		{"2x=6", []token.Op{token.OpDiv}},
		// x = c is final
		{"x=6", nil},
		// within-side reduction is found too
		{"2+3=x", []token.Op{token.OpAdd}},
		{"x=6/2", []token.Op{token.OpDiv}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lhs, rhs, isEq, err := parse.Source(tt.input)
			if err != nil || !isEq {
				t.Fatalf("Source(%q): isEq=%v err=%v", tt.input, isEq, err)
			}
			got := classify.EquationOps(
				classify.LevelTerms(lhs), lhs,
				classify.LevelTerms(rhs), rhs)
			if !opsEqual(got, tt.want) {
				t.Errorf("EquationOps(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	valid := []string{"x", "2+3", "2x-3x", "2*(x+1)", "x-(y-1)"}
	for _, src := range valid {
		if !classify.Valid(mustTokens(t, src)) {
			t.Errorf("Valid(%q) = false, want true", src)
		}
	}

	if classify.Valid(nil) {
		t.Errorf("Valid(nil) = true, want false")
	}
	// operator in operand position
	broken := []*token.Token{token.Binary(token.OpAdd), token.Constant(2)}
	if classify.Valid(broken) {
		t.Errorf("Valid accepted a leading operator")
	}
	// trailing operator
	broken = []*token.Token{token.Constant(2), token.Binary(token.OpAdd)}
	if classify.Valid(broken) {
		t.Errorf("Valid accepted a trailing operator")
	}
	// '=' never appears inside a level
	broken = []*token.Token{token.Constant(2), token.Binary(token.OpEq), token.Constant(2)}
	if classify.Valid(broken) {
		t.Errorf("Valid accepted an embedded '='")
	}
	// invalid bracket body
	broken = []*token.Token{token.Expression([]*token.Token{token.Binary(token.OpAdd)})}
	if classify.Valid(broken) {
		t.Errorf("Valid accepted a malformed bracket body")
	}
}

func TestIsEquation(t *testing.T) {
	lhs := mustTokens(t, "2x")
	rhs := mustTokens(t, "6")
	if !classify.IsEquation(lhs, rhs) {
		t.Errorf("IsEquation rejected a well-formed equation")
	}
	if classify.IsEquation(lhs, nil) {
		t.Errorf("IsEquation accepted an empty side")
	}
}

func TestReducible(t *testing.T) {
	x := token.Variable("x", 2, 1)
	y := token.Variable("y", 1, 1)
	c := token.Constant(3)
	bracket := token.Expression([]*token.Token{token.Constant(1)})

	if !classify.Reducible(token.OpMul, c, x) {
		t.Errorf("constant*variable not reducible")
	}
	if !classify.Reducible(token.OpDiv, x, token.Variable("x", 1, 1)) {
		t.Errorf("x/x not reducible")
	}
	if classify.Reducible(token.OpMul, x, y) {
		t.Errorf("unlike symbols reported reducible")
	}
	if classify.Reducible(token.OpMul, c, bracket) {
		t.Errorf("bracket operand reported reducible")
	}
	if classify.Reducible(token.OpAdd, c, c) {
		t.Errorf("'+' handled by the pair scan, not Reducible")
	}
}
