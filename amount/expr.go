package amount

// Expr is a lazy arithmetic expression over Amounts: a sequence of
// (sign, operand) terms that is only materialized when Accumulate or
// Eval is called. This lets validity checks in the Route State hot path
// describe "current load plus this pickup minus that delivery" without
// allocating an intermediate Amount per operator.
type Expr struct {
	terms []term
}

type term struct {
	scale   float64
	operand Amount
}

// Plus appends a += operand term and returns the expression for
// chaining.
func (e Expr) Plus(operand Amount) Expr {
	e.terms = append(append([]term(nil), e.terms...), term{scale: 1, operand: operand})

	return e
}

// Minus appends a -= operand term and returns the expression for
// chaining.
func (e Expr) Minus(operand Amount) Expr {
	e.terms = append(append([]term(nil), e.terms...), term{scale: -1, operand: operand})

	return e
}

// Scaled appends a scale*operand term.
func (e Expr) Scaled(scale float64, operand Amount) Expr {
	e.terms = append(append([]term(nil), e.terms...), term{scale: scale, operand: operand})

	return e
}

// Accumulate applies every term of e to dst in place: dst += scale*operand
// for each term, without allocating a temporary Amount. This is the
// allocation-free hot-path primitive referenced in the package doc.
func (e Expr) Accumulate(dst *Amount) {
	for _, t := range e.terms {
		n := t.operand.Len()
		if n == 0 {
			continue
		}
		dst.grow(n)
		for i := 0; i < n; i++ {
			dst.values[i] += t.scale * t.operand.values[i]
		}
	}
}

// Eval materializes the expression into a fresh Amount.
func (e Expr) Eval() Amount {
	var out Amount
	e.Accumulate(&out)

	return out
}

// SumExpr builds a lazy Expr equal to the sum of the given Amounts.
func SumExpr(vs ...Amount) Expr {
	var e Expr
	for _, v := range vs {
		e = e.Plus(v)
	}

	return e
}
