package sim

import (
	"fmt"

	slam "github.com/milosgajdos/go-slam"
	"github.com/milosgajdos/go-slam/model"
	"github.com/milosgajdos/go-slam/rand"
	"gonum.org/v1/gonum/mat"
)

// Measurement is a single simulated landmark observation
type Measurement struct {
	// Landmark is observed landmark id
	Landmark int
	// Z is the measured range and bearing
	Z mat.Vector
}

// SLAM2D simulates a planar robot driving through a field of point landmarks.
// It keeps the ground truth pose and landmark positions and produces noisy
// odometry controls and range and bearing measurements to drive the filter.
type SLAM2D struct {
	// pose is the ground truth robot pose
	pose *mat.VecDense
	// landmarks are the ground truth landmark positions
	landmarks []*mat.VecDense
	// odo is the motion model
	odo *model.Odometry
	// rb is the observation model
	rb *model.RangeBearing
	// uNoise perturbs the controls
	uNoise slam.Noise
	// zNoise perturbs the measurements
	zNoise slam.Noise
}

// NewSLAM2D creates new SLAM2D simulation with the robot starting at pose and
// n landmarks scattered around the origin with the given spread (standard
// deviation of both coordinates). uNoise and zNoise perturb the simulated
// controls and measurements; dt is the odometry time step.
// It returns error if the supplied parameters are invalid.
func NewSLAM2D(pose mat.Vector, n int, spread float64, uNoise, zNoise slam.Noise, dt float64) (*SLAM2D, error) {
	if pose.Len() != 3 {
		return nil, fmt.Errorf("invalid pose dimension: %d", pose.Len())
	}

	if n <= 0 || spread <= 0 {
		return nil, fmt.Errorf("invalid landmark field: %d landmarks, spread %f", n, spread)
	}

	odo, err := model.NewOdometry(dt)
	if err != nil {
		return nil, err
	}

	cov := mat.NewSymDense(2, []float64{spread * spread, 0, 0, spread * spread})
	field, err := rand.WithCovN(cov, n)
	if err != nil {
		return nil, fmt.Errorf("failed to scatter landmarks: %v", err)
	}

	landmarks := make([]*mat.VecDense, n)
	for i := 0; i < n; i++ {
		landmarks[i] = mat.NewVecDense(2, []float64{field.At(0, i), field.At(1, i)})
	}

	p := &mat.VecDense{}
	p.CloneFromVec(pose)

	return &SLAM2D{
		pose:      p,
		landmarks: landmarks,
		odo:       odo,
		rb:        model.NewRangeBearing(),
		uNoise:    uNoise,
		zNoise:    zNoise,
	}, nil
}

// Step drives the ground truth robot with control u perturbed by the control
// noise and returns the noisy control the filter should propagate with.
// It returns error if u dimensions are invalid.
func (s *SLAM2D) Step(u mat.Vector) (mat.Vector, error) {
	noisy := &mat.VecDense{}
	noisy.CloneFromVec(u)
	if s.uNoise != nil {
		noisy.AddVec(noisy, s.uNoise.Sample())
	}

	pose, err := s.odo.Propagate(s.pose, noisy)
	if err != nil {
		return nil, err
	}
	s.pose.CopyVec(pose)

	return noisy, nil
}

// Observe returns noisy range and bearing measurements of every landmark
// within maxRange of the ground truth robot.
func (s *SLAM2D) Observe(maxRange float64) ([]Measurement, error) {
	var ms []Measurement
	for i, lm := range s.landmarks {
		z, err := s.rb.Observe(s.pose, lm)
		if err != nil {
			return nil, err
		}

		if z.AtVec(0) > maxRange {
			continue
		}

		zn := &mat.VecDense{}
		zn.CloneFromVec(z)
		if s.zNoise != nil {
			zn.AddVec(zn, s.zNoise.Sample())
		}
		zn.SetVec(1, model.WrapAngle(zn.AtVec(1)))

		ms = append(ms, Measurement{Landmark: i, Z: zn})
	}

	return ms, nil
}

// Pose returns the ground truth robot pose
func (s *SLAM2D) Pose() mat.Vector {
	pose := &mat.VecDense{}
	pose.CloneFromVec(s.pose)

	return pose
}

// Landmarks returns the ground truth landmark positions
func (s *SLAM2D) Landmarks() []mat.Vector {
	lms := make([]mat.Vector, len(s.landmarks))
	for i, lm := range s.landmarks {
		v := &mat.VecDense{}
		v.CloneFromVec(lm)
		lms[i] = v
	}

	return lms
}
