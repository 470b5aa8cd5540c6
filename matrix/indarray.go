package matrix

import (
	"fmt"
)

// IndArray is an ordered set of unique global indices into the state vector and
// covariance matrix. It describes which rows and columns of the covariance
// participate in an operation; it does not own any data. Index sets may be
// non-contiguous and in arbitrary order.
type IndArray []int

// NewIndArray creates new IndArray from idx.
// It returns error if idx contains a negative or duplicate index.
func NewIndArray(idx ...int) (IndArray, error) {
	seen := make(map[int]bool, len(idx))
	for _, i := range idx {
		if i < 0 {
			return nil, fmt.Errorf("invalid state index: %d", i)
		}
		if seen[i] {
			return nil, fmt.Errorf("duplicate state index: %d", i)
		}
		seen[i] = true
	}

	ia := make(IndArray, len(idx))
	copy(ia, idx)

	return ia, nil
}

// Seq returns the IndArray of consecutive indices in the interval [lo, hi).
// It panics if lo is negative or hi < lo.
func Seq(lo, hi int) IndArray {
	if lo < 0 || hi < lo {
		panic(fmt.Errorf("invalid index interval: [%d, %d)", lo, hi))
	}

	ia := make(IndArray, hi-lo)
	for i := range ia {
		ia[i] = lo + i
	}

	return ia
}

// Len returns the number of indices in ia
func (ia IndArray) Len() int {
	return len(ia)
}

// Clone returns a copy of ia
func (ia IndArray) Clone() IndArray {
	c := make(IndArray, len(ia))
	copy(c, ia)

	return c
}

// Index returns the position of index i in ia or -1 if ia does not contain i
func (ia IndArray) Index(i int) int {
	for pos, j := range ia {
		if j == i {
			return pos
		}
	}

	return -1
}

// Contains returns true if ia contains index i
func (ia IndArray) Contains(i int) bool {
	for _, j := range ia {
		if j == i {
			return true
		}
	}

	return false
}

// Diff returns the indices of ia not present in other, preserving the order of ia.
func (ia IndArray) Diff(other IndArray) IndArray {
	out := make(IndArray, 0, len(ia))
	for _, i := range ia {
		if !other.Contains(i) {
			out = append(out, i)
		}
	}

	return out
}

// Union returns the deduplicated union of ia and other in first occurrence order.
func (ia IndArray) Union(other IndArray) IndArray {
	out := ia.Clone()
	for _, i := range other {
		if !out.Contains(i) {
			out = append(out, i)
		}
	}

	return out
}

// Max returns the largest index in ia or -1 if ia is empty
func (ia IndArray) Max() int {
	max := -1
	for _, i := range ia {
		if i > max {
			max = i
		}
	}

	return max
}

// Within returns true if every index of ia lies in the interval [0, n)
func (ia IndArray) Within(n int) bool {
	for _, i := range ia {
		if i < 0 || i >= n {
			return false
		}
	}

	return true
}
