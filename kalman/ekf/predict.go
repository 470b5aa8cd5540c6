package ekf

import (
	"fmt"

	"github.com/milosgajdos/go-slam/matrix"
	"gonum.org/v1/gonum/mat"
)

// Predict propagates the state covariance under the process model with the
// noise covariance Q already expressed in state space:
//
//	[Pvv, Pvm; Pmv, Pmm] = [Fv·Pvv·Fv' + Q, Fv·Pvm; Pmv·Fv', Pmm]
//
// where v denotes the indices in iav, the states the process model acts on,
// and m the remaining indices of iax, the active states of the map. The state
// mean over iav is propagated by the motion collaborator itself via SetX;
// Predict only propagates the covariance.
// It returns error if the supplied dimensions disagree or iav is not a subset of iax.
func (f *EKF) Predict(iax matrix.IndArray, Fv mat.Matrix, iav matrix.IndArray, Q mat.Symmetric) error {
	nv := iav.Len()
	if err := f.checkPredict(iax, Fv, iav); err != nil {
		return err
	}

	noise := mat.NewDense(nv, nv, nil)
	if Q != nil {
		if Q.SymmetricDim() != nv {
			return fmt.Errorf("invalid process noise dimension: %d for %d model states", Q.SymmetricDim(), nv)
		}
		noise.Copy(Q)
	}

	f.predictCov(iax, Fv, iav, noise)

	return nil
}

// PredictCtl propagates the state covariance under the process model with the
// noise covariance U expressed in control space and mapped into state space by
// the Jacobian Fu:
//
//	[Pvv, Pvm; Pmv, Pmm] = [Fv·Pvv·Fv' + Fu·U·Fu', Fv·Pvm; Pmv·Fv', Pmm]
//
// It returns error if the supplied dimensions disagree or iav is not a subset of iax.
func (f *EKF) PredictCtl(iax matrix.IndArray, Fv mat.Matrix, iav matrix.IndArray, Fu mat.Matrix, U mat.Symmetric) error {
	nv := iav.Len()
	if err := f.checkPredict(iax, Fv, iav); err != nil {
		return err
	}

	if Fu == nil || U == nil {
		return fmt.Errorf("invalid control space noise: %v, %v", Fu, U)
	}

	fr, fc := Fu.Dims()
	if fr != nv {
		return fmt.Errorf("invalid noise jacobian rows: %d for %d model states", fr, nv)
	}

	if fc != U.SymmetricDim() {
		return fmt.Errorf("noise jacobian and noise dimensions disagree: %d vs %d", fc, U.SymmetricDim())
	}

	// map the control space noise into state space: Fu·U·Fu'
	var fu, noise mat.Dense
	fu.Mul(Fu, U)
	noise.Mul(&fu, Fu.T())

	f.predictCov(iax, Fv, iav, &noise)

	return nil
}

func (f *EKF) checkPredict(iax matrix.IndArray, Fv mat.Matrix, iav matrix.IndArray) error {
	if err := f.checkActive(iax, "map"); err != nil {
		return err
	}

	if err := f.checkActive(iav, "process model"); err != nil {
		return err
	}

	if err := checkSubset(iav, iax, "process model"); err != nil {
		return err
	}

	if Fv == nil {
		return fmt.Errorf("invalid process model jacobian: %v", Fv)
	}

	r, c := Fv.Dims()
	if r != iav.Len() || c != iav.Len() {
		return fmt.Errorf("invalid process model jacobian dims: [%d x %d] for %d model states", r, c, iav.Len())
	}

	return nil
}

// predictCov applies the covariance propagation with the state space noise
// term already assembled. The cross block Fv·Pvm is computed once and
// mirrored into its transpose half so the two stay exactly symmetric.
func (f *EKF) predictCov(iax matrix.IndArray, Fv mat.Matrix, iav matrix.IndArray, noise *mat.Dense) {
	// Pvv = Fv·Pvv·Fv' + noise
	pvv := matrix.SubMatrix(f.p, iav, iav)
	var fp, vv mat.Dense
	fp.Mul(Fv, pvv)
	vv.Mul(&fp, Fv.T())
	vv.Add(&vv, noise)
	matrix.Symmetrize(&vv)
	matrix.SetSubMatrix(f.p, iav, iav, &vv)

	// Pvm = Fv·Pvm; Pmm is untouched
	iam := iax.Diff(iav)
	if iam.Len() > 0 {
		pvm := matrix.SubMatrix(f.p, iav, iam)
		var vm mat.Dense
		vm.Mul(Fv, pvm)
		matrix.SetSubMatrix(f.p, iav, iam, &vm)
		matrix.SetSubMatrix(f.p, iam, iav, vm.T())
	}
}
