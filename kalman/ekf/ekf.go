package ekf

import (
	"fmt"

	slam "github.com/milosgajdos/go-slam"
	"github.com/milosgajdos/go-slam/estimate"
	"github.com/milosgajdos/go-slam/matrix"
	"gonum.org/v1/gonum/mat"
)

// EKF is an indirect Extended Kalman Filter over a growing SLAM state.
// It owns the state mean vector and the full symmetric covariance matrix of
// robot pose, sensor pose(s) and landmark parameters. Every operation selects
// the participating rows and columns of the covariance through indirect
// arrays, so its cost is proportional to the touched sub-block rather than
// the full state dimension.
//
// The filter is single threaded and non-reentrant: operations on the shared
// state must not be invoked concurrently without external synchronisation.
type EKF struct {
	// x is state mean vector
	x *mat.VecDense
	// p is state covariance, kept symmetric by every operation
	p *mat.Dense
	// k is Kalman gain scratch buffer, resized to the current correction
	k *mat.Dense
	// pht is the P*H' product scratch buffer shared by the correction phases
	pht *mat.Dense
	// stacked holds partial corrections pending a joint update
	stacked []*slam.Innovation
}

// New creates new EKF with a zero initialized state of the given size and
// returns it.
// It returns error if size is not a positive integer.
func New(size int) (*EKF, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid state size: %d", size)
	}

	return &EKF{
		x:   mat.NewVecDense(size, nil),
		p:   mat.NewDense(size, size, nil),
		k:   &mat.Dense{},
		pht: &mat.Dense{},
	}, nil
}

// NewFromCond creates new EKF seeded with the state mean and covariance of the
// supplied initial condition and returns it.
// It returns error if init is nil or its state and covariance dimensions disagree.
func NewFromCond(init slam.InitCond) (*EKF, error) {
	if init == nil {
		return nil, fmt.Errorf("invalid initial condition: %v", init)
	}

	state, cov := init.State(), init.Cov()
	if state.Len() != cov.SymmetricDim() {
		return nil, fmt.Errorf("initial state and covariance dimensions disagree: %d vs %d", state.Len(), cov.SymmetricDim())
	}

	f, err := New(state.Len())
	if err != nil {
		return nil, err
	}

	f.x.CopyVec(state)
	f.p.Copy(cov)

	return f, nil
}

// Size returns the current state dimension
func (f *EKF) Size() int {
	return f.x.Len()
}

// XAt returns the i-th element of the state mean
func (f *EKF) XAt(i int) float64 {
	return f.x.AtVec(i)
}

// SetXAt sets the i-th element of the state mean to v
func (f *EKF) SetXAt(i int, v float64) {
	f.x.SetVec(i, v)
}

// PAt returns the (i,j) element of the state covariance
func (f *EKF) PAt(i, j int) float64 {
	return f.p.At(i, j)
}

// SetPAt sets the (i,j) and (j,i) elements of the state covariance to v
func (f *EKF) SetPAt(i, j int, v float64) {
	f.p.Set(i, j, v)
	f.p.Set(j, i, v)
}

// X returns a copy of the state mean vector
func (f *EKF) X() mat.Vector {
	x := &mat.VecDense{}
	x.CloneFromVec(f.x)

	return x
}

// SetX sets the state mean elements selected by ia to v. The process,
// back-projection and reparametrization functions are applied to the mean by
// the collaborators themselves; this is how their results enter the filter.
// It returns error if ia is out of range of the state or v length disagrees with ia.
func (f *EKF) SetX(ia matrix.IndArray, v mat.Vector) error {
	if !ia.Within(f.Size()) {
		return fmt.Errorf("state indices out of range: %v", ia)
	}

	if v.Len() != ia.Len() {
		return fmt.Errorf("invalid state mean dimension: %d for %d indices", v.Len(), ia.Len())
	}

	matrix.SetSubVec(f.x, ia, v)

	return nil
}

// Cov returns a copy of the state covariance matrix
func (f *EKF) Cov() mat.Symmetric {
	return matrix.ToSym(f.p)
}

// SetCov sets the state covariance matrix to cov.
// It returns error if cov is nil or its dimensions disagree with the current state size.
func (f *EKF) SetCov(cov mat.Symmetric) error {
	if cov == nil {
		return fmt.Errorf("invalid covariance matrix: %v", cov)
	}

	if cov.SymmetricDim() != f.Size() {
		return fmt.Errorf("invalid covariance matrix dims: [%d x %d]", cov.SymmetricDim(), cov.SymmetricDim())
	}

	f.p.Copy(cov)

	return nil
}

// Estimate returns a snapshot of the current state mean and covariance.
func (f *EKF) Estimate() (slam.Estimate, error) {
	return estimate.NewBaseWithCov(f.X(), f.Cov())
}

// Gain returns the Kalman gain of the most recent correction
func (f *EKF) Gain() mat.Matrix {
	gain := &mat.Dense{}
	gain.CloneFrom(f.k)

	return gain
}

// grow extends the state mean and covariance by d zeroed dimensions.
// Any sub-block view taken before the call addresses the old storage and must
// not be reused.
func (f *EKF) grow(d int) {
	n := f.x.Len()
	x := mat.NewVecDense(n+d, nil)
	x.SliceVec(0, n).(*mat.VecDense).CopyVec(f.x)
	f.x = x
	f.p = f.p.Grow(d, d).(*mat.Dense)
}

// checkActive validates that ia addresses allocated state only.
func (f *EKF) checkActive(ia matrix.IndArray, name string) error {
	if !ia.Within(f.Size()) {
		return fmt.Errorf("%s indices out of state range [0, %d): %v", name, f.Size(), ia)
	}

	return nil
}

// checkSubset validates that every index of ia is present in iax.
func checkSubset(ia, iax matrix.IndArray, name string) error {
	for _, i := range ia {
		if !iax.Contains(i) {
			return fmt.Errorf("%s index %d not present in the active state indices", name, i)
		}
	}

	return nil
}
