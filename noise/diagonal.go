package noise

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
)

// Diagonal is zero mean noise with uncorrelated components: its covariance is
// a diagonal matrix of the component variances.
type Diagonal struct {
	// vars are component variances
	vars []float64
}

// NewDiagonal creates new zero mean Diagonal noise with the given component
// variances.
// It returns error if vars is empty or any variance is negative.
func NewDiagonal(vars ...float64) (*Diagonal, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("empty noise variances")
	}

	for _, v := range vars {
		if v < 0 {
			return nil, fmt.Errorf("invalid noise variance: %f", v)
		}
	}

	d := &Diagonal{vars: make([]float64, len(vars))}
	copy(d.vars, vars)

	return d, nil
}

// Sample draws a sample of the noise with each component drawn independently.
func (d *Diagonal) Sample() mat.Vector {
	s := mat.NewVecDense(len(d.vars), nil)
	for i, v := range d.vars {
		if v > 0 {
			s.SetVec(i, rand.NormFloat64()*math.Sqrt(v))
		}
	}

	return s
}

// Cov returns the diagonal covariance matrix of the noise.
func (d *Diagonal) Cov() mat.Symmetric {
	cov := mat.NewSymDense(len(d.vars), nil)
	for i, v := range d.vars {
		cov.SetSym(i, i, v)
	}

	return cov
}

// Mean returns the zero mean of the noise.
func (d *Diagonal) Mean() []float64 {
	return make([]float64, len(d.vars))
}

// Reset does nothing: it implements the slam.Noise interface
func (d *Diagonal) Reset() {}

// String implements the Stringer interface.
func (d *Diagonal) String() string {
	return fmt.Sprintf("Diagonal{\nVars=%v\n}", d.vars)
}
