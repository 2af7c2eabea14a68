package sarima

import "math"

// maxPartial bounds partial autocorrelations used for starting values.
const maxPartial = 0.95

// constrainStationary maps unconstrained values to the coefficients of a
// stationary AR polynomial 1 - phi_1 B - ... - phi_k B^k. Each value is
// first squashed into (-1, 1) and read as a partial autocorrelation, then
// the Durbin-Levinson recursion builds the coefficients.
func constrainStationary(x []float64) []float64 {
	n := len(x)
	phi := make([]float64, n)
	prev := make([]float64, n)
	for k := 0; k < n; k++ {
		r := x[k] / math.Sqrt(1+x[k]*x[k])
		copy(prev, phi)
		for j := 0; j < k; j++ {
			phi[j] = prev[j] - r*prev[k-1-j]
		}
		phi[k] = r
	}
	return phi
}

// constrainInvertible maps unconstrained values to the coefficients of an
// invertible MA polynomial 1 + theta_1 B + ... + theta_k B^k.
func constrainInvertible(x []float64) []float64 {
	theta := constrainStationary(x)
	for i := range theta {
		theta[i] = -theta[i]
	}
	return theta
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}

// params is the estimated parameter set of a model, in constrained form.
type params struct {
	mu  float64
	ar  []float64
	ma  []float64
	sar []float64
	sma []float64
}

// layout describes how params are packed into an optimizer vector:
// [mu] ar... ma... sar... sma...
type layout struct {
	trend          bool
	p, q, sp, sq   int
	muLoc, muScale float64
}

func (l layout) size() int {
	n := l.p + l.q + l.sp + l.sq
	if l.trend {
		n++
	}
	return n
}

// unpack maps an unconstrained optimizer vector to model parameters.
func (l layout) unpack(x []float64) params {
	var p params
	i := 0
	if l.trend {
		p.mu = l.muLoc + l.muScale*x[0]
		i++
	}
	p.ar = constrainStationary(x[i : i+l.p])
	i += l.p
	p.ma = constrainInvertible(x[i : i+l.q])
	i += l.q
	p.sar = constrainStationary(x[i : i+l.sp])
	i += l.sp
	p.sma = constrainInvertible(x[i : i+l.sq])
	return p
}

// flatten lists the constrained parameters in layout order.
func (l layout) flatten(p params) []float64 {
	out := make([]float64, 0, l.size())
	if l.trend {
		out = append(out, p.mu)
	}
	out = append(out, p.ar...)
	out = append(out, p.ma...)
	out = append(out, p.sar...)
	return append(out, p.sma...)
}

// expand is the inverse of flatten.
func (l layout) expand(v []float64) params {
	var p params
	i := 0
	if l.trend {
		p.mu = v[0]
		i++
	}
	take := func(n int) []float64 {
		out := append([]float64(nil), v[i:i+n]...)
		i += n
		return out
	}
	p.ar = take(l.p)
	p.ma = take(l.q)
	p.sar = take(l.sp)
	p.sma = take(l.sq)
	return p
}
