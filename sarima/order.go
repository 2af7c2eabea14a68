package sarima

import "fmt"

// Order is the non-seasonal (p, d, q) order.
type Order struct {
	P int // AR order
	D int // Differencing order
	Q int // MA order
}

func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// SeasonalOrder is the seasonal (P, D, Q, s) order. The zero value is a
// non-seasonal model.
type SeasonalOrder struct {
	P int // Seasonal AR order
	D int // Seasonal differencing order
	Q int // Seasonal MA order
	S int // Period (e.g. 5 for business days in a week)
}

func (s SeasonalOrder) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", s.P, s.D, s.Q, s.S)
}

// IsSeasonal reports whether any seasonal term is active.
func (s SeasonalOrder) IsSeasonal() bool {
	return s.S > 1 && s.P+s.D+s.Q > 0
}

// period returns S for a seasonal model and 0 otherwise.
func (s SeasonalOrder) period() int {
	if !s.IsSeasonal() {
		return 0
	}
	return s.S
}

func validateOrder(o Order, s SeasonalOrder) error {
	if o.P < 0 || o.D < 0 || o.Q < 0 || s.P < 0 || s.D < 0 || s.Q < 0 || s.S < 0 {
		return ErrInvalidOrder
	}
	if s.P+s.D+s.Q > 0 && s.S < 2 {
		return ErrInvalidOrder
	}
	return nil
}

// polyMul multiplies two polynomials given as coefficients of B^0, B^1, ...
func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

// lagPoly builds 1 + sign*(c[0] B^step + c[1] B^(2 step) + ...).
func lagPoly(c []float64, step int, sign float64) []float64 {
	out := make([]float64, len(c)*step+1)
	out[0] = 1
	for i, v := range c {
		out[(i+1)*step] = sign * v
	}
	return out
}

// arPolynomial returns the expanded AR coefficients a_1..a_k of
// phi(B)Phi(B^s) = 1 - a_1 B - ... - a_k B^k.
func arPolynomial(ar, sar []float64, s int) []float64 {
	poly := lagPoly(ar, 1, -1)
	if len(sar) > 0 {
		poly = polyMul(poly, lagPoly(sar, s, -1))
	}
	out := make([]float64, len(poly)-1)
	for i := range out {
		out[i] = -poly[i+1]
	}
	return out
}

// maPolynomial returns the expanded MA coefficients b_1..b_k of
// theta(B)Theta(B^s) = 1 + b_1 B + ... + b_k B^k.
func maPolynomial(ma, sma []float64, s int) []float64 {
	poly := lagPoly(ma, 1, 1)
	if len(sma) > 0 {
		poly = polyMul(poly, lagPoly(sma, s, 1))
	}
	return poly[1:]
}

// diffPolynomial returns the full coefficients of (1-B)^d (1-B^s)^D,
// starting with the leading 1.
func diffPolynomial(d, sd, s int) []float64 {
	poly := []float64{1}
	for i := 0; i < d; i++ {
		poly = polyMul(poly, []float64{1, -1})
	}
	for i := 0; i < sd; i++ {
		poly = polyMul(poly, lagPoly([]float64{1}, s, -1))
	}
	return poly
}
