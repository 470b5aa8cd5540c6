package ekf

import (
	"fmt"

	slam "github.com/milosgajdos/go-slam"
	"github.com/milosgajdos/go-slam/matrix"
	"gonum.org/v1/gonum/mat"
)

// StackCorrection appends a pending partial correction to the stacked
// correction buffer without mutating the state. Stacked corrections are
// applied jointly by CorrectAllStacked so they all share a single
// linearization point instead of each relinearizing around the estimate
// moved by the previous one.
// It returns error if inn is nil or addresses unallocated state.
func (f *EKF) StackCorrection(inn *slam.Innovation) error {
	if inn == nil {
		return fmt.Errorf("invalid innovation: %v", inn)
	}

	if err := f.checkActive(inn.Indices(), "innovation"); err != nil {
		return err
	}

	f.stacked = append(f.stacked, inn)

	return nil
}

// Stacked returns the number of corrections pending in the buffer
func (f *EKF) Stacked() int {
	return len(f.stacked)
}

// CorrectAllStacked joins every correction pending in the buffer into one
// innovation over the deduplicated union of their state indices and applies
// it in a single Correct pass. The noise blocks of the stacked entries are
// taken as mutually independent: the joint innovation covariance is block
// diagonal. The buffer is cleared before the joint update is applied, so a
// failed update reports its error and discards the entries.
// It returns error if the buffer is empty or the joint update fails.
func (f *EKF) CorrectAllStacked(iax matrix.IndArray) error {
	if len(f.stacked) == 0 {
		return fmt.Errorf("no stacked corrections to apply")
	}

	var ia matrix.IndArray
	nz := 0
	for _, inn := range f.stacked {
		ia = ia.Union(inn.Indices())
		nz += inn.Dim()
	}

	z := mat.NewVecDense(nz, nil)
	cov := mat.NewSymDense(nz, nil)
	jac := mat.NewDense(nz, ia.Len(), nil)

	row := 0
	for _, inn := range f.stacked {
		d := inn.Dim()
		for i := 0; i < d; i++ {
			z.SetVec(row+i, inn.Mean().AtVec(i))
			for j := i; j < d; j++ {
				cov.SetSym(row+i, row+j, inn.Cov().At(i, j))
			}
		}
		// scatter the entry Jacobian columns into their union positions
		for j, gi := range inn.Indices() {
			col := ia.Index(gi)
			for i := 0; i < d; i++ {
				jac.Set(row+i, col, inn.Jac().At(i, j))
			}
		}
		row += d
	}

	f.stacked = f.stacked[:0]

	joint, err := slam.NewInnovation(z, cov, jac, ia)
	if err != nil {
		return fmt.Errorf("failed to build joint innovation: %v", err)
	}

	return f.Correct(iax, joint)
}
