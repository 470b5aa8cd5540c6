package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// RangeBearing is a planar range and bearing observation model of a point
// landmark (lx, ly) seen from the robot pose (x, y, θ). It is the observation
// collaborator of the filter: it predicts measurements, forms residuals and
// supplies the observation and back projection Jacobians the correction and
// initialization consume.
type RangeBearing struct{}

// NewRangeBearing creates new RangeBearing model and returns it.
func NewRangeBearing() *RangeBearing {
	return &RangeBearing{}
}

// Observe predicts the range and bearing measurement of landmark lm from pose.
// It returns error if pose or landmark dimensions are invalid or the landmark
// coincides with the robot position.
func (rb *RangeBearing) Observe(pose, lm mat.Vector) (mat.Vector, error) {
	if pose.Len() != 3 || lm.Len() != 2 {
		return nil, fmt.Errorf("invalid pose or landmark dimension: %d, %d", pose.Len(), lm.Len())
	}

	dx := lm.AtVec(0) - pose.AtVec(0)
	dy := lm.AtVec(1) - pose.AtVec(1)
	r := math.Hypot(dx, dy)
	if r == 0 {
		return nil, fmt.Errorf("landmark coincides with robot position")
	}

	return mat.NewVecDense(2, []float64{
		r,
		WrapAngle(math.Atan2(dy, dx) - pose.AtVec(2)),
	}), nil
}

// Residual returns the residual predicted minus actual with the bearing
// component wrapped to (-π, π].
func (rb *RangeBearing) Residual(predicted, actual mat.Vector) mat.Vector {
	return mat.NewVecDense(2, []float64{
		predicted.AtVec(0) - actual.AtVec(0),
		WrapAngle(predicted.AtVec(1) - actual.AtVec(1)),
	})
}

// Jacobians returns the observation Jacobians wrt the pose (2x3) and the
// landmark (2x2), linearized at pose and lm.
// It returns error if pose or landmark dimensions are invalid or the landmark
// coincides with the robot position.
func (rb *RangeBearing) Jacobians(pose, lm mat.Vector) (Hr, Hl *mat.Dense, err error) {
	if pose.Len() != 3 || lm.Len() != 2 {
		return nil, nil, fmt.Errorf("invalid pose or landmark dimension: %d, %d", pose.Len(), lm.Len())
	}

	dx := lm.AtVec(0) - pose.AtVec(0)
	dy := lm.AtVec(1) - pose.AtVec(1)
	q := dx*dx + dy*dy
	if q == 0 {
		return nil, nil, fmt.Errorf("landmark coincides with robot position")
	}
	r := math.Sqrt(q)

	Hr = mat.NewDense(2, 3, []float64{
		-dx / r, -dy / r, 0,
		dy / q, -dx / q, -1,
	})

	Hl = mat.NewDense(2, 2, []float64{
		dx / r, dy / r,
		-dy / q, dx / q,
	})

	return Hr, Hl, nil
}

// BackProject back projects the measurement z = (r, b) taken from pose into
// the landmark position it observes.
// It returns error if pose or measurement dimensions are invalid.
func (rb *RangeBearing) BackProject(pose, z mat.Vector) (mat.Vector, error) {
	if pose.Len() != 3 || z.Len() != 2 {
		return nil, fmt.Errorf("invalid pose or measurement dimension: %d, %d", pose.Len(), z.Len())
	}

	r, b := z.AtVec(0), z.AtVec(1)
	a := pose.AtVec(2) + b

	return mat.NewVecDense(2, []float64{
		pose.AtVec(0) + r*math.Cos(a),
		pose.AtVec(1) + r*math.Sin(a),
	}), nil
}

// BackProjectJacobians returns the back projection Jacobians wrt the pose
// (2x3) and wrt the raw measurement (2x2), linearized at pose and z. They are
// the Grs and Gy inputs of landmark initialization.
// It returns error if pose or measurement dimensions are invalid.
func (rb *RangeBearing) BackProjectJacobians(pose, z mat.Vector) (Grs, Gy *mat.Dense, err error) {
	if pose.Len() != 3 || z.Len() != 2 {
		return nil, nil, fmt.Errorf("invalid pose or measurement dimension: %d, %d", pose.Len(), z.Len())
	}

	r, b := z.AtVec(0), z.AtVec(1)
	a := pose.AtVec(2) + b
	sin, cos := math.Sin(a), math.Cos(a)

	Grs = mat.NewDense(2, 3, []float64{
		1, 0, -r * sin,
		0, 1, r * cos,
	})

	Gy = mat.NewDense(2, 2, []float64{
		cos, -r * sin,
		sin, r * cos,
	})

	return Grs, Gy, nil
}
