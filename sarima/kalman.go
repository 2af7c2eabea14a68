package sarima

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// minVariance floors the concentrated innovation variance so that a
	// perfectly fitted series keeps a finite likelihood.
	minVariance = 1e-10
	// maxDoubling bounds the Lyapunov doubling iterations.
	maxDoubling = 64
	// steadyTol is the relative change in F below which the filter is
	// treated as having reached its steady state.
	steadyTol = 1e-9
)

var errNonStationary = errors.New("sarima: state transition is not stationary")

// stateSpace is the ARMA(r, r-1) model in the Harvey form
//
//	alpha(t+1) = T alpha(t) + R e(t+1)
//	z(t)       = alpha(t)[0]
//
// where T has the AR coefficients in its first column and ones on the
// superdiagonal, and R = (1, b_1, ..., b_(r-1)). The shock variance is
// fixed at one; it is concentrated out of the likelihood.
type stateSpace struct {
	r  int
	ar []float64 // First column of T, length r
	rv []float64 // R, length r
}

func newStateSpace(p params, s int) *stateSpace {
	ar := arPolynomial(p.ar, p.sar, s)
	ma := maPolynomial(p.ma, p.sma, s)

	r := max(len(ar), len(ma)+1)
	ss := &stateSpace{
		r:  r,
		ar: make([]float64, r),
		rv: make([]float64, r),
	}
	copy(ss.ar, ar)
	ss.rv[0] = 1
	copy(ss.rv[1:], ma)
	return ss
}

// transition returns T as a dense matrix.
func (ss *stateSpace) transition() *mat.Dense {
	t := mat.NewDense(ss.r, ss.r, nil)
	for i := 0; i < ss.r; i++ {
		t.Set(i, 0, ss.ar[i])
		if i+1 < ss.r {
			t.Set(i, i+1, 1)
		}
	}
	return t
}

// step computes T*a in place.
func (ss *stateSpace) step(a []float64) {
	a0 := a[0]
	for i := 0; i < ss.r; i++ {
		next := 0.0
		if i+1 < ss.r {
			next = a[i+1]
		}
		a[i] = ss.ar[i]*a0 + next
	}
}

// initialCovariance returns the unconditional state covariance, the
// solution of P = T P T' + R R'.
func (ss *stateSpace) initialCovariance() ([][]float64, error) {
	q := mat.NewDense(ss.r, ss.r, nil)
	q.Outer(1, mat.NewVecDense(ss.r, ss.rv), mat.NewVecDense(ss.r, ss.rv))

	p, err := solveLyapunov(ss.transition(), q)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, ss.r)
	for i := range out {
		out[i] = make([]float64, ss.r)
		for j := range out[i] {
			out[i][j] = p.At(i, j)
		}
	}
	return out, nil
}

// solveLyapunov solves P = A P A' + Q with the doubling algorithm.
func solveLyapunov(a, q *mat.Dense) (*mat.Dense, error) {
	ak := mat.DenseCopyOf(a)
	p := mat.DenseCopyOf(q)

	var apa, tmp, aa mat.Dense
	for i := 0; i < maxDoubling; i++ {
		tmp.Mul(ak, p)
		apa.Mul(&tmp, ak.T())
		p.Add(p, &apa)

		aa.Mul(ak, ak)
		ak.Copy(&aa)

		norm := mat.Norm(ak, math.Inf(1))
		if math.IsNaN(norm) || math.IsInf(norm, 0) {
			return nil, errNonStationary
		}
		if norm < 1e-14 {
			return p, nil
		}
	}
	return nil, errNonStationary
}

// filterResult holds the output of one pass of the Kalman filter.
type filterResult struct {
	innovations []float64 // v(t) = z(t) - E[z(t) | past]
	variances   []float64 // F(t), in units of the shock variance
	state       []float64 // Predicted state for the first period after the sample
	sumSq       float64   // sum v(t)^2 / F(t)
	sumLogF     float64
}

// filter runs the Kalman filter over the demeaned, differenced series z.
func (ss *stateSpace) filter(z []float64) (*filterResult, error) {
	r := ss.r
	p, err := ss.initialCovariance()
	if err != nil {
		return nil, err
	}

	n := len(z)
	res := &filterResult{
		innovations: make([]float64, n),
		variances:   make([]float64, n),
	}

	a := make([]float64, r)
	gain := make([]float64, r)
	row := make([]float64, r)
	m := make([][]float64, r)
	for i := range m {
		m[i] = make([]float64, r)
	}

	steady := false
	f, prevF := 0.0, math.NaN()
	for t, y := range z {
		if !steady {
			f = p[0][0]
			if f <= 0 || math.IsNaN(f) {
				return nil, errNonStationary
			}
			for i := 0; i < r; i++ {
				gain[i] = p[i][0] / f
			}
			ss.predictCovariance(p, gain, row, m)
			if math.Abs(f-prevF) <= steadyTol*f {
				steady = true
			}
			prevF = f
		}

		v := y - a[0]
		res.innovations[t] = v
		res.variances[t] = f
		res.sumSq += v * v / f
		res.sumLogF += math.Log(f)

		for i := 0; i < r; i++ {
			a[i] += gain[i] * v
		}
		ss.step(a)
	}

	res.state = a
	return res, nil
}

// predictCovariance replaces p with T (P - K P[0,:]) T' + R R', where K is
// the gain computed from p. row and m are scratch space.
func (ss *stateSpace) predictCovariance(p [][]float64, gain, row []float64, m [][]float64) {
	r := ss.r
	copy(row, p[0])
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			p[i][j] -= gain[i] * row[j]
		}
	}

	// m = T P
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			v := ss.ar[i] * p[0][j]
			if i+1 < r {
				v += p[i+1][j]
			}
			m[i][j] = v
		}
	}
	// P = m T' + R R'
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			v := m[i][0] * ss.ar[j]
			if j+1 < r {
				v += m[i][j+1]
			}
			p[i][j] = v + ss.rv[i]*ss.rv[j]
		}
	}
}

// concentrated returns the innovation variance and log-likelihood of a
// filter pass with the shock variance profiled out.
func (res *filterResult) concentrated() (sigma2, logLik float64) {
	n := float64(len(res.innovations))
	sigma2 = math.Max(res.sumSq/n, minVariance)
	logLik = -0.5*n*(math.Log(2*math.Pi)+math.Log(sigma2)) - 0.5*res.sumSq/sigma2 - 0.5*res.sumLogF
	return sigma2, logLik
}
