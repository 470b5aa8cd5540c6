package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewBase(t *testing.T) {
	assert := assert.New(t)

	val := mat.NewVecDense(2, []float64{1.0, -2.0})

	b, err := NewBase(val)
	assert.NotNil(b)
	assert.NoError(err)

	assert.True(mat.Equal(val, b.Val()))
	assert.True(mat.Equal(mat.NewSymDense(2, nil), b.Cov()))

	b, err = NewBase(nil)
	assert.Nil(b)
	assert.Error(err)
}

func TestNewBaseWithCov(t *testing.T) {
	assert := assert.New(t)

	val := mat.NewVecDense(2, []float64{1.0, -2.0})
	cov := mat.NewSymDense(2, []float64{0.5, 0.1, 0.1, 0.25})

	b, err := NewBaseWithCov(val, cov)
	assert.NotNil(b)
	assert.NoError(err)

	assert.True(mat.Equal(val, b.Val()))
	assert.True(mat.Equal(cov, b.Cov()))

	// the estimate is a snapshot decoupled from the caller's storage
	val.SetVec(0, 9.0)
	cov.SetSym(0, 0, 9.0)
	assert.Equal(1.0, b.Val().AtVec(0))
	assert.Equal(0.5, b.Cov().At(0, 0))

	b, err = NewBaseWithCov(mat.NewVecDense(3, nil), cov)
	assert.Nil(b)
	assert.Error(err)
}
