package rational

import "math/big"

// LimitDenominator returns the closest rational to v whose denominator does
// not exceed max, using the continued-fraction best-approximation algorithm.
// Values already within the bound are returned unchanged, so the operation
// is idempotent. A tie between the two candidate bounds resolves to the
// upper convergent, matching the conventional definition.
func (v Value) LimitDenominator(max int64) (Value, error) {
	if max < 1 {
		return Value{}, ErrLimitBound
	}
	m := big.NewInt(max)
	if v.rat.Denom().Cmp(m) <= 0 {
		return v, nil
	}

	// Walk the continued-fraction expansion of v, tracking the last two
	// convergents p0/q0 and p1/q1, until the next convergent's denominator
	// would exceed the bound.
	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	n := new(big.Int).Set(v.rat.Num())
	d := new(big.Int).Set(v.rat.Denom())

	for {
		a := new(big.Int).Div(n, d)
		q2 := new(big.Int).Mul(a, q1)
		q2.Add(q2, q0)
		if q2.Cmp(m) > 0 {
			break
		}
		p2 := new(big.Int).Mul(a, p1)
		p2.Add(p2, p0)
		p0, q0, p1, q1 = p1, q1, p2, q2

		rem := new(big.Int).Mul(a, d)
		rem.Sub(n, rem)
		n, d = d, rem
	}

	// The best approximation is either the upper convergent p1/q1 or the
	// semiconvergent (p0 + k*p1) / (q0 + k*q1) with the largest k that
	// keeps the denominator within the bound.
	k := new(big.Int).Sub(m, q0)
	k.Div(k, q1)

	sn := new(big.Int).Mul(k, p1)
	sn.Add(sn, p0)
	sd := new(big.Int).Mul(k, q1)
	sd.Add(sd, q0)

	var semi, conv big.Rat
	semi.SetFrac(sn, sd)
	conv.SetFrac(p1, q1)

	dSemi := new(big.Rat).Sub(&semi, &v.rat)
	dSemi.Abs(dSemi)
	dConv := new(big.Rat).Sub(&conv, &v.rat)
	dConv.Abs(dConv)

	var out Value
	if dConv.Cmp(dSemi) <= 0 {
		out.rat.Set(&conv)
	} else {
		out.rat.Set(&semi)
	}
	return out, nil
}
