package sim

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/milosgajdos/go-slam/noise"
)

var (
	uNoise *noise.Diagonal
	zNoise *noise.Diagonal
	start  *mat.VecDense
)

func setup() {
	uNoise, _ = noise.NewDiagonal(0.01, 0.001)
	zNoise, _ = noise.NewDiagonal(0.04, 0.001)
	start = mat.NewVecDense(3, nil)
}

func TestMain(m *testing.M) {
	// set up tests
	setup()
	// run the tests
	retCode := m.Run()
	// call with result of m.Run()
	os.Exit(retCode)
}

func TestNewSLAM2D(t *testing.T) {
	assert := assert.New(t)

	s, err := NewSLAM2D(start, 5, 10.0, uNoise, zNoise, 0.1)
	assert.NotNil(s)
	assert.NoError(err)
	assert.Len(s.Landmarks(), 5)

	s, err = NewSLAM2D(mat.NewVecDense(2, nil), 5, 10.0, uNoise, zNoise, 0.1)
	assert.Nil(s)
	assert.Error(err)

	s, err = NewSLAM2D(start, 0, 10.0, uNoise, zNoise, 0.1)
	assert.Nil(s)
	assert.Error(err)

	s, err = NewSLAM2D(start, 5, 10.0, uNoise, zNoise, -0.1)
	assert.Nil(s)
	assert.Error(err)
}

func TestSLAM2DStep(t *testing.T) {
	assert := assert.New(t)

	s, err := NewSLAM2D(start, 3, 10.0, nil, nil, 0.1)
	assert.NoError(err)

	u := mat.NewVecDense(2, []float64{1.0, 0.0})
	noisyU, err := s.Step(u)
	assert.NoError(err)

	// noiseless simulation echoes the control and moves the robot exactly
	assert.True(mat.Equal(u, noisyU))
	assert.InDelta(0.1, s.Pose().AtVec(0), 1e-12)
	assert.InDelta(0.0, s.Pose().AtVec(1), 1e-12)

	_, err = s.Step(mat.NewVecDense(3, nil))
	assert.Error(err)
}

func TestSLAM2DObserve(t *testing.T) {
	assert := assert.New(t)

	s, err := NewSLAM2D(start, 10, 5.0, nil, nil, 0.1)
	assert.NoError(err)

	// every landmark is visible at an unbounded range
	ms, err := s.Observe(1e9)
	assert.NoError(err)
	assert.Len(ms, 10)

	for _, m := range ms {
		assert.Equal(2, m.Z.Len())
		assert.True(m.Z.AtVec(0) > 0)
	}

	// none are visible at zero range
	ms, err = s.Observe(0.0)
	assert.NoError(err)
	assert.Len(ms, 0)
}

func TestInitCond(t *testing.T) {
	assert := assert.New(t)

	state := mat.NewVecDense(2, []float64{1.0, 2.0})
	cov := mat.NewSymDense(2, []float64{0.5, 0.1, 0.1, 0.25})

	ic := NewInitCond(state, cov)
	assert.True(mat.Equal(state, ic.State()))
	assert.True(mat.Equal(cov, ic.Cov()))

	// the condition is decoupled from the caller's storage
	state.SetVec(0, 9.0)
	assert.Equal(1.0, ic.State().AtVec(0))
}
