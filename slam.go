package slam

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/milosgajdos/go-slam/matrix"
)

// Filter is a SLAM state estimator.
type Filter interface {
	// Predict propagates the state covariance under the process model
	Predict(iax matrix.IndArray, Fv mat.Matrix, iav matrix.IndArray, Q mat.Symmetric) error
	// Correct updates the state based on external measurement innovation
	Correct(iax matrix.IndArray, inn *Innovation) error
}

// Noise is dynamical system noise
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
	// Reset resets the noise
	Reset()
}

// InitCond is initial state condition of the filter
type InitCond interface {
	// State returns initial filter state
	State() mat.Vector
	// Cov returns initial state covariance
	Cov() mat.Symmetric
}

// Estimate is dynamical system filter estimate
type Estimate interface {
	// Val returns estimate value
	Val() mat.Vector
	// Cov returns estimate covariance
	Cov() mat.Symmetric
}

// Innovation is a measurement residual produced by an observation collaborator.
// It carries the residual mean and covariance together with the Jacobian of the
// residual wrt the state elements that contributed to it and the indirect array
// naming those elements. The residual convention is predicted minus actual.
// Innovation is a read-only input to the filter: its lifetime is a single
// correction call or one slot in the stacked correction buffer.
type Innovation struct {
	// z is residual mean
	z *mat.VecDense
	// cov is residual covariance
	cov *mat.SymDense
	// jac is residual Jacobian wrt the states in ia
	jac *mat.Dense
	// ia indexes the states that contributed to the residual
	ia matrix.IndArray
}

// NewInnovation creates new Innovation from residual mean z, its covariance cov,
// the residual Jacobian jac and the indirect array ia of contributing states.
// It returns error if the supplied dimensions disagree.
func NewInnovation(z mat.Vector, cov mat.Symmetric, jac mat.Matrix, ia matrix.IndArray) (*Innovation, error) {
	if z == nil || cov == nil || jac == nil {
		return nil, fmt.Errorf("invalid innovation input")
	}

	r, c := jac.Dims()
	if z.Len() != r {
		return nil, fmt.Errorf("innovation mean and jacobian dimensions disagree: %d vs %d", z.Len(), r)
	}

	if cov.SymmetricDim() != r {
		return nil, fmt.Errorf("innovation covariance dimension mismatch: %d vs %d", cov.SymmetricDim(), r)
	}

	if ia.Len() != c {
		return nil, fmt.Errorf("innovation jacobian has %d columns for %d state indices", c, ia.Len())
	}

	zv := &mat.VecDense{}
	zv.CloneFromVec(z)

	zc := mat.NewSymDense(cov.SymmetricDim(), nil)
	zc.CopySym(cov)

	h := &mat.Dense{}
	h.CloneFrom(jac)

	return &Innovation{
		z:   zv,
		cov: zc,
		jac: h,
		ia:  ia.Clone(),
	}, nil
}

// Mean returns the residual mean
func (inn *Innovation) Mean() mat.Vector {
	return inn.z
}

// Cov returns the residual covariance
func (inn *Innovation) Cov() mat.Symmetric {
	return inn.cov
}

// Jac returns the residual Jacobian
func (inn *Innovation) Jac() mat.Matrix {
	return inn.jac
}

// Indices returns the indirect array of the states the Jacobian refers to
func (inn *Innovation) Indices() matrix.IndArray {
	return inn.ia
}

// Dim returns the residual dimension
func (inn *Innovation) Dim() int {
	return inn.z.Len()
}
