package ekf

import (
	"fmt"

	"github.com/milosgajdos/go-slam/matrix"
	"gonum.org/v1/gonum/mat"
)

// Reparametrize transforms a landmark from its old parameterization over
// iaOld to a new one over iaNew, e.g. inverse depth to Cartesian. Jl is the
// Jacobian of the new parameterization wrt the old one; the two index sets
// may differ in cardinality when the parameterization changes dimension. The
// covariance is propagated linearly:
//
//	P(ianew, ianew) = Jl·P(iaold, iaold)·Jl'
//	P(ianew, rest)  = Jl·P(iaold, rest)
//
// where rest are the active indices outside the landmark; everything outside
// the touched rows and columns is preserved. The landmark mean is transformed
// by the map management collaborator through SetX. Old indices abandoned by a
// dimension reducing reparametrization are the map manager's to recycle.
// It returns error if the supplied dimensions disagree or iaOld is not a
// subset of iax.
func (f *EKF) Reparametrize(iax matrix.IndArray, Jl mat.Matrix, iaOld, iaNew matrix.IndArray) error {
	if err := f.checkActive(iax, "map"); err != nil {
		return err
	}

	if err := f.checkActive(iaOld, "old landmark"); err != nil {
		return err
	}

	if err := checkSubset(iaOld, iax, "old landmark"); err != nil {
		return err
	}

	if Jl == nil {
		return fmt.Errorf("invalid reparametrization jacobian: %v", Jl)
	}

	if r, c := Jl.Dims(); r != iaNew.Len() || c != iaOld.Len() {
		return fmt.Errorf("invalid reparametrization jacobian dims: [%d x %d] for %d new and %d old landmark states", r, c, iaNew.Len(), iaOld.Len())
	}

	for _, i := range iaNew {
		if i < 0 {
			return fmt.Errorf("invalid landmark index: %d", i)
		}
	}

	// a dimension increasing reparametrization may need fresh slots
	if max := iaNew.Max(); max >= f.Size() {
		f.grow(max + 1 - f.Size())
	}

	rest := iax.Diff(iaOld).Diff(iaNew)

	// gather the old blocks before scattering: old and new index sets may overlap
	pold := matrix.SubMatrix(f.p, iaOld, iaOld)
	poldrest := matrix.SubMatrix(f.p, iaOld, rest)

	var jp, diag mat.Dense
	jp.Mul(Jl, pold)
	diag.Mul(&jp, Jl.T())
	matrix.Symmetrize(&diag)
	matrix.SetSubMatrix(f.p, iaNew, iaNew, &diag)

	if rest.Len() > 0 {
		var cross mat.Dense
		cross.Mul(Jl, poldrest)
		matrix.SetSubMatrix(f.p, iaNew, rest, &cross)
		matrix.SetSubMatrix(f.p, rest, iaNew, cross.T())
	}

	return nil
}
