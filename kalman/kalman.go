package kalman

import (
	slam "github.com/milosgajdos/go-slam"
	"gonum.org/v1/gonum/mat"
)

// Filter is indirect Kalman Filter over a growing SLAM state
type Filter interface {
	// slam.Filter is a SLAM state estimator
	slam.Filter
	// Cov returns Kalman filter state covariance
	Cov() mat.Symmetric
	// Gain returns Kalman filter gain
	Gain() mat.Matrix
}
