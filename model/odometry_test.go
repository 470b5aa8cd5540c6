package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewOdometry(t *testing.T) {
	assert := assert.New(t)

	o, err := NewOdometry(0.1)
	assert.NotNil(o)
	assert.NoError(err)

	o, err = NewOdometry(0.0)
	assert.Nil(o)
	assert.Error(err)
}

func TestOdometryPropagate(t *testing.T) {
	assert := assert.New(t)

	o, err := NewOdometry(0.5)
	assert.NoError(err)

	// drive straight along x
	pose := mat.NewVecDense(3, []float64{1.0, 2.0, 0.0})
	u := mat.NewVecDense(2, []float64{2.0, 0.0})

	next, err := o.Propagate(pose, u)
	assert.NoError(err)
	assert.InDelta(2.0, next.AtVec(0), 1e-12)
	assert.InDelta(2.0, next.AtVec(1), 1e-12)
	assert.InDelta(0.0, next.AtVec(2), 1e-12)

	// turn in place wraps the heading
	pose = mat.NewVecDense(3, []float64{0, 0, math.Pi - 0.1})
	u = mat.NewVecDense(2, []float64{0.0, 1.0})

	next, err = o.Propagate(pose, u)
	assert.NoError(err)
	assert.InDelta(-math.Pi+0.4, next.AtVec(2), 1e-12)

	_, err = o.Propagate(mat.NewVecDense(2, nil), u)
	assert.Error(err)
	_, err = o.Propagate(pose, mat.NewVecDense(3, nil))
	assert.Error(err)
}

func TestOdometryJacobians(t *testing.T) {
	assert := assert.New(t)

	o, err := NewOdometry(0.5)
	assert.NoError(err)

	pose := mat.NewVecDense(3, []float64{1.0, 2.0, math.Pi / 2})
	u := mat.NewVecDense(2, []float64{2.0, 0.5})

	Fv, Fu, err := o.Jacobians(pose, u)
	assert.NoError(err)

	r, c := Fv.Dims()
	assert.Equal([2]int{3, 3}, [2]int{r, c})
	assert.InDelta(1.0, Fv.At(0, 0), 1e-12)
	assert.InDelta(-1.0, Fv.At(0, 2), 1e-12)
	assert.InDelta(0.0, Fv.At(1, 2), 1e-12)

	r, c = Fu.Dims()
	assert.Equal([2]int{3, 2}, [2]int{r, c})
	assert.InDelta(0.0, Fu.At(0, 0), 1e-12)
	assert.InDelta(0.5, Fu.At(1, 0), 1e-12)
	assert.InDelta(0.5, Fu.At(2, 1), 1e-12)

	_, _, err = o.Jacobians(mat.NewVecDense(2, nil), u)
	assert.Error(err)
}

func TestWrapAngle(t *testing.T) {
	assert := assert.New(t)

	assert.InDelta(0.0, WrapAngle(0.0), 1e-12)
	assert.InDelta(-math.Pi+0.5, WrapAngle(math.Pi+0.5), 1e-12)
	assert.InDelta(math.Pi-0.5, WrapAngle(-math.Pi-0.5), 1e-12)
	assert.InDelta(math.Pi, WrapAngle(3*math.Pi), 1e-12)
}
