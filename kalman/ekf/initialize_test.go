package ekf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/milosgajdos/go-slam/matrix"
)

func TestInitialize(t *testing.T) {
	assert := assert.New(t)

	f := newTestFilter(t, 0.11, 0.11, 0.11)
	f.SetXAt(0, 1.0)
	iax := matrix.Seq(0, 3)

	Grs := mat.NewDense(1, 3, []float64{1, 0, 0})
	Gy := mat.NewDense(1, 1, []float64{1})
	R := mat.NewSymDense(1, []float64{0.05})

	assert.NoError(f.Initialize(iax, Grs, iax, matrix.IndArray{3}, Gy, R))

	// the state grew by the landmark dimension
	assert.Equal(4, f.Size())
	// new mean element is zeroed until the collaborator back projects it
	assert.Equal(0.0, f.XAt(3))
	// prior mean is preserved
	assert.Equal(1.0, f.XAt(0))

	assert.InDelta(0.16, f.PAt(3, 3), 1e-12)
	assert.InDelta(0.11, f.PAt(3, 0), 1e-12)
	assert.InDelta(0.0, f.PAt(3, 1), 1e-12)
	assert.InDelta(0.0, f.PAt(3, 2), 1e-12)

	assertSymmetric(t, f, 1e-12)
}

func TestInitializeMultiDim(t *testing.T) {
	assert := assert.New(t)

	f := newTestFilter(t, 1, 1, 1)
	assert.NoError(f.SetCov(mat.NewSymDense(3, []float64{
		1.0, 0.2, 0.1,
		0.2, 1.5, 0.3,
		0.1, 0.3, 2.0,
	})))
	before := f.Cov()

	iax := matrix.Seq(0, 3)
	iaRS := matrix.Seq(0, 3)
	iaL := matrix.Seq(3, 5)

	Grs := mat.NewDense(2, 3, []float64{
		1, 0, -0.5,
		0, 1, 0.8,
	})
	Gy := mat.NewDense(2, 2, []float64{
		0.9, -0.1,
		0.2, 1.1,
	})
	R := mat.NewSymDense(2, []float64{0.05, 0.01, 0.01, 0.02})

	assert.NoError(f.Initialize(iax, Grs, iaRS, iaL, Gy, R))
	assert.Equal(5, f.Size())

	// P(ial, iax) = Grs*P(iars, iax)
	var cross mat.Dense
	cross.Mul(Grs, matrix.SubMatrix(before, iaRS, iax))
	assert.True(mat.EqualApprox(&cross, matrix.SubMatrix(f.Cov(), iaL, iax), 1e-12))

	// P(ial, ial) = Grs*P*Grs' + Gy*R*Gy'
	var gp, diag, gr, grr mat.Dense
	gp.Mul(Grs, matrix.SubMatrix(before, iaRS, iaRS))
	diag.Mul(&gp, Grs.T())
	gr.Mul(Gy, R)
	grr.Mul(&gr, Gy.T())
	diag.Add(&diag, &grr)
	assert.True(mat.EqualApprox(&diag, matrix.SubMatrix(f.Cov(), iaL, iaL), 1e-12))

	// prior covariance block is preserved
	assert.True(mat.Equal(before, matrix.SubMatrix(f.Cov(), iax, iax)))

	assertSymmetric(t, f, 1e-12)
}

func TestInitializeUncorrelated(t *testing.T) {
	assert := assert.New(t)

	f := newTestFilter(t, 0.5, 0.5, 0.5)
	iax := matrix.Seq(0, 3)

	// zero back projection Jacobian: the landmark must come out uncorrelated
	Grs := mat.NewDense(1, 3, nil)
	Gy := mat.NewDense(1, 1, []float64{1})
	R := mat.NewSymDense(1, []float64{0.05})

	assert.NoError(f.Initialize(iax, Grs, iax, matrix.IndArray{3}, Gy, R))

	for i := 0; i < 3; i++ {
		assert.Equal(0.0, f.PAt(3, i))
		assert.Equal(0.0, f.PAt(i, 3))
	}
	assert.InDelta(0.05, f.PAt(3, 3), 1e-12)
}

func TestInitializePartial(t *testing.T) {
	assert := assert.New(t)

	f := newTestFilter(t, 0.11, 0.11, 0.11)
	iax := matrix.Seq(0, 3)

	Grs := mat.NewDense(1, 3, []float64{1, 0, 0})
	Gy := mat.NewDense(1, 1, []float64{1})
	R := mat.NewSymDense(1, []float64{0.05})

	// non measured prior adds Gn*N*Gn' to the diagonal block
	Gn := mat.NewDense(1, 1, []float64{2})
	N := mat.NewSymDense(1, []float64{0.1})

	assert.NoError(f.InitializePartial(iax, Grs, iax, matrix.IndArray{3}, Gy, R, Gn, N))

	assert.InDelta(0.16+0.4, f.PAt(3, 3), 1e-12)
	assert.InDelta(0.11, f.PAt(3, 0), 1e-12)

	assert.Error(f.InitializePartial(matrix.Seq(0, 4), Grs, matrix.Seq(0, 3), matrix.IndArray{4}, Gy, R, nil, nil))
}

func TestInitializeInvalidInput(t *testing.T) {
	assert := assert.New(t)

	f := newTestFilter(t, 1, 1, 1)
	iax := matrix.Seq(0, 3)

	Grs := mat.NewDense(1, 3, []float64{1, 0, 0})
	Gy := mat.NewDense(1, 1, []float64{1})
	R := mat.NewSymDense(1, []float64{0.05})

	// landmark index already active
	assert.Error(f.Initialize(iax, Grs, iax, matrix.IndArray{2}, Gy, R))

	// empty landmark index set
	assert.Error(f.Initialize(iax, Grs, iax, matrix.IndArray{}, Gy, R))

	// robot and sensor indices not a subset of the map
	assert.Error(f.Initialize(matrix.Seq(0, 2), Grs, iax, matrix.IndArray{3}, Gy, R))

	// jacobian dims disagree
	assert.Error(f.Initialize(iax, mat.NewDense(1, 2, nil), iax, matrix.IndArray{3}, Gy, R))
	assert.Error(f.Initialize(iax, Grs, iax, matrix.IndArray{3}, mat.NewDense(1, 2, nil), R))
	assert.Error(f.Initialize(iax, nil, iax, matrix.IndArray{3}, Gy, R))

	// nothing was mutated by the failed calls
	assert.Equal(3, f.Size())
}
