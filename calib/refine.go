// Package calib refines camera intrinsic parameters against observed 2D-3D
// correspondences by non-linear minimization of reprojection error.
package calib

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize"

	"github.com/Camilochiang/openMVG/camera"
	"github.com/Camilochiang/openMVG/multiview"
	"github.com/Camilochiang/openMVG/spatial"
)

// Observation pairs an observed pixel with the world point it is believed to
// image.
type Observation struct {
	Pixel r2.Point  `json:"pixel"`
	Point r3.Vector `json:"point"`
}

// MeanReprojectionError returns the average pixel distance between the
// observed pixels and their world points projected through the model.
func MeanReprojectionError(intrinsic camera.Intrinsic, pose *spatial.Pose, observations []Observation) float64 {
	if len(observations) == 0 {
		return 0
	}
	sum := 0.0
	for _, obs := range observations {
		sum += multiview.ReprojectionError(intrinsic, pose, obs.Point, obs.Pixel)
	}
	return sum / float64(len(observations))
}

// RefineIntrinsics adjusts the model's free parameters to minimize the summed
// squared reprojection error of the observations at a fixed pose. The input
// model is left untouched; the refined copy is returned. This is the solver
// side of the parameter-vector contract: get the parameters, perturb them,
// push them back through UpdateFromParameters, re-measure.
func RefineIntrinsics(
	intrinsic camera.Intrinsic,
	pose *spatial.Pose,
	observations []Observation,
	logger golog.Logger,
) (camera.Intrinsic, error) {
	if len(observations) == 0 {
		return nil, errors.New("no observations to refine against")
	}
	if err := intrinsic.CheckValid(); err != nil {
		return nil, err
	}
	if err := pose.CheckValid(); err != nil {
		return nil, err
	}
	init := intrinsic.Parameters()
	scratch := intrinsic.Clone()
	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			// A vector the model rejects is malformed, not a bad fit; an
			// infinite cost pushes the solver straight back out of it.
			if err := scratch.UpdateFromParameters(params); err != nil {
				return math.Inf(1)
			}
			cost := 0.0
			for _, obs := range observations {
				residual := multiview.ReprojectionError(scratch, pose, obs.Point, obs.Pixel)
				cost += residual * residual
			}
			return cost
		},
	}
	result, err := optimize.Minimize(problem, init, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, errors.Wrap(err, "intrinsic refinement did not converge")
	}
	logger.Debugf("refined intrinsic parameters %v -> %v (cost %v)", init, result.X, result.F)
	refined := intrinsic.Clone()
	if err := refined.UpdateFromParameters(result.X); err != nil {
		return nil, err
	}
	return refined, nil
}
