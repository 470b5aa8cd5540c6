package ekf

import (
	"fmt"

	slam "github.com/milosgajdos/go-slam"
	"github.com/milosgajdos/go-slam/matrix"
	"gonum.org/v1/gonum/mat"
)

// Correct applies a single measurement update from the supplied innovation:
//
//	K = −P(iax, ia)·H'·inv(Z)
//	x(iax) += K·z
//	P(iax, iax) −= P·H'·inv(Z)·(P·H')'
//
// where {z, Z} are the innovation mean and covariance, H its Jacobian and ia
// the indirect array of contributing states. The residual convention is
// predicted minus actual, hence the negated gain; the covariance reduction is
// the same either way. P is explicitly symmetrized afterwards.
// It returns error if the supplied dimensions disagree or Z is singular; on
// error the state mean and covariance are left untouched.
func (f *EKF) Correct(iax matrix.IndArray, inn *slam.Innovation) error {
	if inn == nil {
		return fmt.Errorf("invalid innovation: %v", inn)
	}

	if err := f.checkActive(iax, "map"); err != nil {
		return err
	}

	if err := f.checkActive(inn.Indices(), "innovation"); err != nil {
		return err
	}

	if err := checkSubset(inn.Indices(), iax, "innovation"); err != nil {
		return err
	}

	if err := f.computeK(iax, inn); err != nil {
		return err
	}

	// x(iax) += K·z
	var dx mat.VecDense
	dx.MulVec(f.k, inn.Mean())
	matrix.AddSubVec(f.x, iax, &dx)

	f.updateP(iax)

	return nil
}

// computeK computes the Kalman gain K = −P(iax, ia)·H'·inv(Z) into the gain
// scratch buffer, caching the P(iax, ia)·H' product for the covariance
// downdate. No state is mutated: a singular innovation covariance aborts the
// correction before any update is applied.
func (f *EKF) computeK(iax matrix.IndArray, inn *slam.Innovation) error {
	pxr := matrix.SubMatrix(f.p, iax, inn.Indices())
	f.pht.Reset()
	f.pht.Mul(pxr, inn.Jac().T())

	var zinv mat.Dense
	if err := zinv.Inverse(inn.Cov()); err != nil {
		return fmt.Errorf("failed to invert innovation covariance: %v", err)
	}

	f.k.Reset()
	f.k.Mul(f.pht, &zinv)
	f.k.Scale(-1, f.k)

	return nil
}

// updateP applies the covariance downdate using the cached gain and P·H'
// product. The gain carries the negative residual sign, so adding K·(P·H')'
// subtracts the reduction P·H'·inv(Z)·H·P.
func (f *EKF) updateP(iax matrix.IndArray) {
	var dp mat.Dense
	dp.Mul(f.k, f.pht.T())

	pxx := matrix.SubMatrix(f.p, iax, iax)
	pxx.Add(pxx, &dp)
	matrix.Symmetrize(pxx)
	matrix.SetSubMatrix(f.p, iax, iax, pxx)
}
