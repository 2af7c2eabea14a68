package sarima

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func sliceEqual(t *testing.T, name string, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: expected %v, got %v", name, want, got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("%s[%d]: expected %f, got %f", name, i, want[i], got[i])
		}
	}
}

func TestPolynomials(t *testing.T) {
	// (1 - 0.5B)(1 - 0.3B^4) = 1 - 0.5B - 0.3B^4 + 0.15B^5
	sliceEqual(t, "ar", arPolynomial([]float64{0.5}, []float64{0.3}, 4), []float64{0.5, 0, 0, 0.3, -0.15})
	// (1 + 0.4B)(1 + 0.2B^2) = 1 + 0.4B + 0.2B^2 + 0.08B^3
	sliceEqual(t, "ma", maPolynomial([]float64{0.4}, []float64{0.2}, 2), []float64{0.4, 0.2, 0.08})
	// (1 - B)(1 - B^3)
	sliceEqual(t, "diff", diffPolynomial(1, 1, 3), []float64{1, -1, 0, -1, 1})
	sliceEqual(t, "diff2", diffPolynomial(2, 0, 0), []float64{1, -2, 1})
	sliceEqual(t, "none", arPolynomial(nil, nil, 0), []float64{})
}

func TestConstrainStationary(t *testing.T) {
	for _, x := range [][]float64{{0.3, -2}, {5, 5}, {-10, 0.1}, {0, 0}} {
		phi := constrainStationary(x)
		if math.Abs(phi[1]) >= 1 || phi[0]+phi[1] >= 1 || phi[1]-phi[0] >= 1 {
			t.Errorf("constrainStationary(%v) = %v is not stationary", x, phi)
		}
		theta := constrainInvertible(x)
		if theta[0] != -phi[0] || theta[1] != -phi[1] {
			t.Errorf("constrainInvertible(%v) = %v should negate %v", x, theta, phi)
		}
	}

	// Order one reduces to x / sqrt(1 + x^2).
	if got := constrainStationary([]float64{1})[0]; math.Abs(got-1/math.Sqrt2) > 1e-12 {
		t.Errorf("Expected %f, got %f", 1/math.Sqrt2, got)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	lay := layout{trend: true, p: 2, q: 1, sp: 1, sq: 1}
	if lay.size() != 6 {
		t.Fatalf("Expected size 6, got %d", lay.size())
	}
	p := params{mu: 1.5, ar: []float64{0.1, 0.2}, ma: []float64{0.3}, sar: []float64{0.4}, sma: []float64{-0.5}}
	flat := lay.flatten(p)
	sliceEqual(t, "flatten", flat, []float64{1.5, 0.1, 0.2, 0.3, 0.4, -0.5})
	back := lay.expand(flat)
	sliceEqual(t, "expand", lay.flatten(back), flat)
}

func TestSolveLyapunov(t *testing.T) {
	p, err := solveLyapunov(mat.NewDense(1, 1, []float64{0.5}), mat.NewDense(1, 1, []float64{1}))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p.At(0, 0)-4.0/3) > 1e-12 {
		t.Errorf("Expected 4/3, got %f", p.At(0, 0))
	}

	if _, err := solveLyapunov(mat.NewDense(1, 1, []float64{1.5}), mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Expected an error for an explosive transition")
	}
}

func TestFilterAR1(t *testing.T) {
	phi := 0.5
	ss := newStateSpace(params{ar: []float64{phi}}, 0)
	z := []float64{1, 2, -1, 0.5}

	res, err := ss.filter(z)
	if err != nil {
		t.Fatal(err)
	}

	sliceEqual(t, "innovations", res.innovations, []float64{1, 2 - phi*1, -1 - phi*2, 0.5 + phi})
	sliceEqual(t, "variances", res.variances, []float64{1 / (1 - phi*phi), 1, 1, 1})
	sliceEqual(t, "state", res.state, []float64{phi * 0.5})
}

func TestPsiWeights(t *testing.T) {
	m := New(Order{P: 1}, SeasonalOrder{})
	m.ARCoeffs = []float64{0.5}
	sliceEqual(t, "ar1", m.psiWeights(4), []float64{1, 0.5, 0.25, 0.125})

	rw := New(Order{D: 1}, SeasonalOrder{})
	sliceEqual(t, "random walk", rw.psiWeights(3), []float64{1, 1, 1})

	ma := New(Order{Q: 1}, SeasonalOrder{})
	ma.MACoeffs = []float64{0.4}
	sliceEqual(t, "ma1", ma.psiWeights(3), []float64{1, 0.4, 0})
}
