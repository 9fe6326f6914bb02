package token

// Kind is the tag in the Token tagged union.
type Kind uint8

const (
	KindConstant Kind = iota
	KindVariable
	KindBinary
	KindExpression
)

// Op is a binary operator symbol.
type Op byte

const (
	OpAdd Op = '+'
	OpSub Op = '-'
	OpMul Op = '*'
	OpDiv Op = '/'
	OpEq  Op = '='
)

// Priority orders operator classes for the fixpoint loops: division and
// multiplication can create new combinable terms, so addition and
// subtraction come last.
var Priority = []Op{OpDiv, OpMul, OpAdd, OpSub}

// Token is one node of a parsed algebraic tree, interpreted by Kind:
//
//	KindConstant:   Value
//	KindVariable:   Symbol, Coefficient, Power
//	KindBinary:     Op
//	KindExpression: Body, Coefficient, Power
//
// Scope is the index path from the root of the whole tree; it only serves
// presentation (highlighting the token a step touched) and never feeds
// arithmetic.
type Token struct {
	Kind        Kind
	Value       float64
	Symbol      string
	Coefficient float64
	Power       float64
	Op          Op
	Body        []*Token
	Scope       []int
}

// Constant builds a numeric token.
func Constant(v float64) *Token {
	return &Token{Kind: KindConstant, Value: v}
}

// Zero is the sentinel constant used to pad a structurally absent
// right-hand side when rendering "LHS = 0".
func Zero() *Token {
	return &Token{Kind: KindConstant}
}

// Variable builds a coefficient*symbol^power token.
func Variable(symbol string, coefficient, power float64) *Token {
	return &Token{Kind: KindVariable, Symbol: symbol, Coefficient: coefficient, Power: power}
}

// Binary builds an operator token.
func Binary(op Op) *Token {
	return &Token{Kind: KindBinary, Op: op}
}

// Expression builds a bracketed sub-expression with unit coefficient and power.
func Expression(body []*Token) *Token {
	return &Token{Kind: KindExpression, Body: body, Coefficient: 1, Power: 1}
}

// IsBinary reports whether t is an operator token with the given symbol.
func (t *Token) IsBinary(op Op) bool {
	return t != nil && t.Kind == KindBinary && t.Op == op
}

// IsSign reports whether t is a '+' or '-' operator token.
func (t *Token) IsSign() bool {
	return t != nil && t.Kind == KindBinary && (t.Op == OpAdd || t.Op == OpSub)
}

// Magnitude returns the signed numeric part of a Constant or Variable token
// and true, or 0 and false for other kinds.
func (t *Token) Magnitude() (float64, bool) {
	switch t.Kind {
	case KindConstant:
		return t.Value, true
	case KindVariable:
		return t.Coefficient, true
	case KindBinary, KindExpression:
		return 0, false
	}
	return 0, false
}

// SetMagnitude stores the signed numeric part of a Constant or Variable.
func (t *Token) SetMagnitude(v float64) {
	switch t.Kind {
	case KindConstant:
		t.Value = v
	case KindVariable:
		t.Coefficient = v
	case KindBinary, KindExpression:
	}
}

// Clone deep-copies a token. Every reduction step operates on clones so no
// two live references alias the same mutable tree across a call boundary.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	c := *t
	if t.Scope != nil {
		c.Scope = append([]int(nil), t.Scope...)
	}
	if t.Body != nil {
		c.Body = CloneSeq(t.Body)
	}
	return &c
}

// CloneSeq deep-copies a token sequence.
func CloneSeq(seq []*Token) []*Token {
	if seq == nil {
		return nil
	}
	out := make([]*Token, len(seq))
	for i, t := range seq {
		out[i] = t.Clone()
	}
	return out
}

// Reindex recomputes every scope path in seq as its index path from the
// root. Scopes are rebuilt from scratch after each structural mutation
// rather than patched in place.
func Reindex(seq []*Token) {
	reindex(seq, nil)
}

func reindex(seq []*Token, prefix []int) {
	for i, t := range seq {
		path := make([]int, len(prefix)+1)
		copy(path, prefix)
		path[len(prefix)] = i
		t.Scope = path
		if t.Kind == KindExpression {
			reindex(t.Body, path)
		}
	}
}

// Equal compares two tokens structurally, ignoring scope.
func Equal(a, b *Token) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindConstant:
		return a.Value == b.Value
	case KindVariable:
		return a.Symbol == b.Symbol && a.Coefficient == b.Coefficient && a.Power == b.Power
	case KindBinary:
		return a.Op == b.Op
	case KindExpression:
		return a.Coefficient == b.Coefficient && a.Power == b.Power && EqualSeq(a.Body, b.Body)
	}
	return false
}

// EqualSeq compares two sequences token-for-token, ignoring scope.
func EqualSeq(a, b []*Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// NormalizeSigns rewrites seq in place so that only a leading term may carry
// a negative magnitude: any later negative Constant/Variable/Expression
// preceded by '+' or '-' has its sign folded into that operator.
func NormalizeSigns(seq []*Token) {
	for i := 1; i < len(seq); i++ {
		t := seq[i]
		neg := false
		switch t.Kind {
		case KindConstant:
			neg = t.Value < 0
		case KindVariable:
			neg = t.Coefficient < 0
		case KindExpression:
			neg = t.Coefficient < 0
		case KindBinary:
		}
		if !neg || !seq[i-1].IsSign() {
			continue
		}
		if seq[i-1].Op == OpAdd {
			seq[i-1].Op = OpSub
		} else {
			seq[i-1].Op = OpAdd
		}
		switch t.Kind {
		case KindConstant:
			t.Value = -t.Value
		case KindVariable, KindExpression:
			t.Coefficient = -t.Coefficient
		case KindBinary:
		}
	}
}

// EquationFrame assembles a full-tree snapshot "LHS = RHS" for the trail,
// padding an empty right side with the Zero sentinel. The '=' exists only in
// the snapshot; neither stored side ever contains it.
func EquationFrame(left, right []*Token) []*Token {
	frame := CloneSeq(left)
	frame = append(frame, Binary(OpEq))
	if len(right) == 0 {
		frame = append(frame, Zero())
	} else {
		frame = append(frame, CloneSeq(right)...)
	}
	Reindex(frame)
	return frame
}
