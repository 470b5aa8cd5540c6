package ekf

import (
	"fmt"

	"github.com/milosgajdos/go-slam/matrix"
	"gonum.org/v1/gonum/mat"
)

// Initialize extends the state with a new landmark whose parameters are fully
// observable from the current measurement. Grs is the Jacobian of the back
// projection function wrt the robot and sensor states iaRS, iaL names the new
// landmark indices, Gy is the Jacobian wrt the raw measurement and R the
// measurement noise covariance. The state grows by the landmark dimension and
// the new covariance blocks become
//
//	P(ial, ial) = Grs·P(iars, iars)·Grs' + Gy·R·Gy'
//	P(ial, iax) = Grs·P(iars, iax)
//
// with the transposed half mirrored. The landmark mean is set by the map
// management collaborator through SetX after the call. All prior state
// entries outside the new rows and columns are preserved.
// It returns error if the supplied dimensions disagree, iaRS is not a subset
// of iax or iaL overlaps iax.
func (f *EKF) Initialize(iax matrix.IndArray, Grs mat.Matrix, iaRS, iaL matrix.IndArray, Gy mat.Matrix, R mat.Symmetric) error {
	return f.initialize(iax, Grs, iaRS, iaL, Gy, R, nil, nil)
}

// InitializePartial extends the state with a new landmark only partially
// observable from the current measurement, e.g. a feature with unobserved
// depth. On top of the Initialize terms the non measured prior with Jacobian
// Gn and covariance N contributes Gn·N·Gn' to the new diagonal block.
// It returns error under the Initialize conditions or if Gn or N is nil.
func (f *EKF) InitializePartial(iax matrix.IndArray, Grs mat.Matrix, iaRS, iaL matrix.IndArray, Gy mat.Matrix, R mat.Symmetric, Gn mat.Matrix, N mat.Symmetric) error {
	if Gn == nil || N == nil {
		return fmt.Errorf("invalid non measured prior: %v, %v", Gn, N)
	}

	return f.initialize(iax, Grs, iaRS, iaL, Gy, R, Gn, N)
}

func (f *EKF) initialize(iax matrix.IndArray, Grs mat.Matrix, iaRS, iaL matrix.IndArray, Gy mat.Matrix, R mat.Symmetric, Gn mat.Matrix, N mat.Symmetric) error {
	if err := f.checkInitialize(iax, Grs, iaRS, iaL, Gy, R, Gn, N); err != nil {
		return err
	}

	// grow the backing storage to make the landmark indices addressable;
	// sub-block views taken before this point are invalid
	if max := iaL.Max(); max >= f.Size() {
		f.grow(max + 1 - f.Size())
	}

	// cross covariance with every active state: P(ial, iax) = Grs·P(iars, iax)
	prsx := matrix.SubMatrix(f.p, iaRS, iax)
	var cross mat.Dense
	cross.Mul(Grs, prsx)
	matrix.SetSubMatrix(f.p, iaL, iax, &cross)
	matrix.SetSubMatrix(f.p, iax, iaL, cross.T())

	// new diagonal block: Grs·P(iars, iars)·Grs' + Gy·R·Gy' (+ Gn·N·Gn')
	prs := matrix.SubMatrix(f.p, iaRS, iaRS)
	var gp, diag mat.Dense
	gp.Mul(Grs, prs)
	diag.Mul(&gp, Grs.T())

	var gr, grr mat.Dense
	gr.Mul(Gy, R)
	grr.Mul(&gr, Gy.T())
	diag.Add(&diag, &grr)

	if Gn != nil {
		var gn, gnn mat.Dense
		gn.Mul(Gn, N)
		gnn.Mul(&gn, Gn.T())
		diag.Add(&diag, &gnn)
	}

	matrix.Symmetrize(&diag)
	matrix.SetSubMatrix(f.p, iaL, iaL, &diag)

	return nil
}

func (f *EKF) checkInitialize(iax matrix.IndArray, Grs mat.Matrix, iaRS, iaL matrix.IndArray, Gy mat.Matrix, R mat.Symmetric, Gn mat.Matrix, N mat.Symmetric) error {
	if err := f.checkActive(iax, "map"); err != nil {
		return err
	}

	if err := f.checkActive(iaRS, "robot and sensor"); err != nil {
		return err
	}

	if err := checkSubset(iaRS, iax, "robot and sensor"); err != nil {
		return err
	}

	nl := iaL.Len()
	if nl == 0 {
		return fmt.Errorf("empty landmark index set")
	}

	for _, i := range iaL {
		if i < 0 {
			return fmt.Errorf("invalid landmark index: %d", i)
		}
		if iax.Contains(i) {
			return fmt.Errorf("landmark index %d already active in the map", i)
		}
	}

	if Grs == nil || Gy == nil || R == nil {
		return fmt.Errorf("invalid initialization input")
	}

	if r, c := Grs.Dims(); r != nl || c != iaRS.Len() {
		return fmt.Errorf("invalid back projection jacobian dims: [%d x %d] for %d landmark and %d robot and sensor states", r, c, nl, iaRS.Len())
	}

	if r, c := Gy.Dims(); r != nl || c != R.SymmetricDim() {
		return fmt.Errorf("invalid measurement jacobian dims: [%d x %d] for %d landmark states and noise dim %d", r, c, nl, R.SymmetricDim())
	}

	if Gn != nil {
		if r, c := Gn.Dims(); r != nl || c != N.SymmetricDim() {
			return fmt.Errorf("invalid prior jacobian dims: [%d x %d] for %d landmark states and prior dim %d", r, c, nl, N.SymmetricDim())
		}
	}

	return nil
}
