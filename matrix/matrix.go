package matrix

import (
	"gonum.org/v1/gonum/mat"
)

// SubMatrix returns the sub-block of m selected by the given row and column
// indices: the result has dimensions rows.Len() x cols.Len() and its (i,j)
// element equals m(rows[i], cols[j]).
// It panics if any index is out of range for m.
func SubMatrix(m mat.Matrix, rows, cols IndArray) *mat.Dense {
	sub := mat.NewDense(rows.Len(), cols.Len(), nil)
	for i, r := range rows {
		for j, c := range cols {
			sub.Set(i, j, m.At(r, c))
		}
	}

	return sub
}

// SetSubMatrix scatters src into m so that m(rows[i], cols[j]) = src(i,j).
// It panics if src dimensions disagree with the index sets or if any index is
// out of range for m.
func SetSubMatrix(m *mat.Dense, rows, cols IndArray, src mat.Matrix) {
	r, c := src.Dims()
	if r != rows.Len() || c != cols.Len() {
		panic(mat.ErrShape)
	}

	for i, ri := range rows {
		for j, cj := range cols {
			m.Set(ri, cj, src.At(i, j))
		}
	}
}

// SubVec returns the elements of v selected by ia as a new vector.
// It panics if any index is out of range for v.
func SubVec(v mat.Vector, ia IndArray) *mat.VecDense {
	sub := mat.NewVecDense(ia.Len(), nil)
	for i, j := range ia {
		sub.SetVec(i, v.AtVec(j))
	}

	return sub
}

// SetSubVec scatters src into v so that v(ia[i]) = src(i).
// It panics if src length disagrees with ia or if any index is out of range.
func SetSubVec(v *mat.VecDense, ia IndArray, src mat.Vector) {
	if src.Len() != ia.Len() {
		panic(mat.ErrShape)
	}

	for i, j := range ia {
		v.SetVec(j, src.AtVec(i))
	}
}

// AddSubVec adds src to the elements of v selected by ia: v(ia[i]) += src(i).
// It panics if src length disagrees with ia or if any index is out of range.
func AddSubVec(v *mat.VecDense, ia IndArray, src mat.Vector) {
	if src.Len() != ia.Len() {
		panic(mat.ErrShape)
	}

	for i, j := range ia {
		v.SetVec(j, v.AtVec(j)+src.AtVec(i))
	}
}

// Symmetrize replaces the square matrix m with the average of m and its
// transpose, removing floating point asymmetry accumulated by sequential
// updates.
// It panics if m is not square.
func Symmetrize(m *mat.Dense) {
	r, c := m.Dims()
	if r != c {
		panic(mat.ErrShape)
	}

	for i := 0; i < r; i++ {
		for j := i + 1; j < c; j++ {
			v := 0.5 * (m.At(i, j) + m.At(j, i))
			m.Set(i, j, v)
			m.Set(j, i, v)
		}
	}
}

// ToSym copies the square matrix m into a new SymDense, averaging m with its
// transpose.
// It panics if m is not square.
func ToSym(m mat.Matrix) *mat.SymDense {
	r, c := m.Dims()
	if r != c {
		panic(mat.ErrShape)
	}

	s := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < c; j++ {
			s.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}

	return s
}
