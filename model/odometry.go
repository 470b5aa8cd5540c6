package model

import (
	"fmt"
	"math"

	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"
)

// Odometry is a planar odometry motion model over the robot pose (x, y, θ)
// driven by linear and angular velocity controls (v, w). It is the motion
// collaborator of the filter: it propagates the pose mean and supplies the
// process model Jacobians the covariance prediction consumes.
type Odometry struct {
	// dt is the propagation time step
	dt float64
}

// NewOdometry creates new Odometry model with time step dt.
// It returns error if dt is not positive.
func NewOdometry(dt float64) (*Odometry, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("invalid time step: %f", dt)
	}

	return &Odometry{dt: dt}, nil
}

// Propagate propagates pose under control u = (v, w) and returns the new pose.
// It returns error if pose or control dimensions are invalid.
func (o *Odometry) Propagate(pose, u mat.Vector) (mat.Vector, error) {
	if pose.Len() != 3 {
		return nil, fmt.Errorf("invalid pose dimension: %d", pose.Len())
	}

	if u.Len() != 2 {
		return nil, fmt.Errorf("invalid control dimension: %d", u.Len())
	}

	x, y, th := pose.AtVec(0), pose.AtVec(1), pose.AtVec(2)
	v, w := u.AtVec(0), u.AtVec(1)

	next := mat.NewVecDense(3, []float64{
		x + v*o.dt*math.Cos(th),
		y + v*o.dt*math.Sin(th),
		WrapAngle(th + w*o.dt),
	})

	return next, nil
}

// Jacobians returns the process model Jacobian Fv wrt the pose and the noise
// mapping Jacobian Fu wrt the control, both linearized at pose and control u.
// It returns error if pose or control dimensions are invalid.
func (o *Odometry) Jacobians(pose, u mat.Vector) (Fv, Fu *mat.Dense, err error) {
	if pose.Len() != 3 {
		return nil, nil, fmt.Errorf("invalid pose dimension: %d", pose.Len())
	}

	if u.Len() != 2 {
		return nil, nil, fmt.Errorf("invalid control dimension: %d", u.Len())
	}

	th := pose.AtVec(2)
	v := u.AtVec(0)

	Fv, err = matrix.NewDenseValIdentity(3, 1.0)
	if err != nil {
		return nil, nil, err
	}
	Fv.Set(0, 2, -v*o.dt*math.Sin(th))
	Fv.Set(1, 2, v*o.dt*math.Cos(th))

	Fu = mat.NewDense(3, 2, []float64{
		o.dt * math.Cos(th), 0,
		o.dt * math.Sin(th), 0,
		0, o.dt,
	})

	return Fv, Fu, nil
}

// WrapAngle wraps a to the interval (-π, π].
func WrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}

	return a
}
