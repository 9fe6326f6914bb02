package token

// Mul multiplies two operand tokens and returns a single product token:
// numeric*numeric yields a Constant, numeric*Expression distributes the
// scalar over the body, Expression*Expression cross-distributes every pair
// of body terms. Irreducible products (variables with different symbols)
// are kept as an Expression holding the joined "a*b" run. Inputs are not
// mutated.
func Mul(a, b *Token) *Token {
	out := mulPair(prepare(a), prepare(b))
	if len(out) == 1 {
		return out[0]
	}
	e := Expression(out)
	NormalizeSigns(e.Body)
	return e
}

// prepare clones the operand and folds a non-unit Expression coefficient
// into its body so multiplication only ever sees unit-coefficient brackets.
func prepare(t *Token) *Token {
	c := t.Clone()
	if c.Kind == KindExpression && c.Coefficient != 1 {
		scaled := distribute(Constant(c.Coefficient), c)
		scaled.Power = c.Power
		return scaled
	}
	return c
}

func mulPair(a, b *Token) []*Token {
	switch {
	case a.Kind == KindConstant && b.Kind == KindConstant:
		return []*Token{Constant(a.Value * b.Value)}
	case a.Kind == KindConstant && b.Kind == KindVariable:
		return []*Token{Variable(b.Symbol, a.Value*b.Coefficient, b.Power)}
	case a.Kind == KindVariable && b.Kind == KindConstant:
		return []*Token{Variable(a.Symbol, a.Coefficient*b.Value, a.Power)}
	case a.Kind == KindVariable && b.Kind == KindVariable:
		if a.Symbol == b.Symbol {
			return []*Token{Variable(a.Symbol, a.Coefficient*b.Coefficient, a.Power + b.Power)}
		}
		return joinRun([]*Token{a}, []*Token{b})
	case a.Kind == KindExpression && b.Kind == KindExpression:
		return cross(prepare(a), prepare(b)).Body
	case b.Kind == KindExpression:
		return distribute(a, prepare(b)).Body
	case a.Kind == KindExpression:
		return distribute(b, prepare(a)).Body
	}
	return joinRun([]*Token{a}, []*Token{b})
}

// distribute multiplies every additive term of e's body by the scalar term s.
func distribute(s, e *Token) *Token {
	var body []*Token
	for _, term := range terms(e.Body) {
		prod := mulTerms([]*Token{s.Clone()}, term)
		if len(body) > 0 {
			body = append(body, Binary(OpAdd))
		}
		body = append(body, prod...)
	}
	NormalizeSigns(body)
	return Expression(body)
}

// cross multiplies every pair of body terms of two brackets.
func cross(a, b *Token) *Token {
	var body []*Token
	for _, ta := range terms(a.Body) {
		for _, tb := range terms(b.Body) {
			prod := mulTerms(CloneSeq(ta), tb)
			if len(body) > 0 {
				body = append(body, Binary(OpAdd))
			}
			body = append(body, prod...)
		}
	}
	NormalizeSigns(body)
	return Expression(body)
}

func mulTerms(ta, tb []*Token) []*Token {
	if len(ta) == 1 && len(tb) == 1 {
		return mulPair(ta[0], tb[0])
	}
	return joinRun(ta, tb)
}

// joinRun concatenates two terms with a '*' into one multiplicative run,
// folding all magnitude signs into the run's first token so only the
// leading position may be negative.
func joinRun(ta, tb []*Token) []*Token {
	run := append(CloneSeq(ta), Binary(OpMul))
	run = append(run, CloneSeq(tb)...)
	sign := 1.0
	for _, t := range run {
		if m, ok := t.Magnitude(); ok && m < 0 {
			sign = -sign
			t.SetMagnitude(-m)
		}
	}
	for _, t := range run {
		if m, ok := t.Magnitude(); ok {
			t.SetMagnitude(sign * m)
			break
		}
	}
	return run
}

// terms splits a level sequence into its additive terms. A term is a maximal
// run of operands joined by '*' or '/', cloned, with the sign of its leading
// '+'/'-' folded into the first magnitude.
func terms(seq []*Token) [][]*Token {
	var out [][]*Token
	i := 0
	for i < len(seq) {
		sign := 1.0
		if seq[i].IsSign() {
			if seq[i].Op == OpSub {
				sign = -1
			}
			i++
		}
		if i >= len(seq) {
			break
		}
		term := []*Token{seq[i].Clone()}
		i++
		for i+1 < len(seq) && (seq[i].IsBinary(OpMul) || seq[i].IsBinary(OpDiv)) {
			term = append(term, seq[i].Clone(), seq[i+1].Clone())
			i += 2
		}
		if sign < 0 {
			for _, t := range term {
				if m, ok := t.Magnitude(); ok {
					t.SetMagnitude(-m)
					break
				}
				if t.Kind == KindExpression {
					t.Coefficient = -t.Coefficient
					break
				}
			}
		}
		out = append(out, term)
	}
	return out
}
