// Package camera implements camera intrinsic models for multi-view geometry:
// the mapping between 3D rays in camera space and 2D pixel coordinates, the
// inverse mapping, and the parameter plumbing that lets a non-linear solver
// adjust a model during bundle adjustment.
package camera

import (
	"encoding/json"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/Camilochiang/openMVG/spatial"
)

// ErrNoIntrinsics is when a camera does not have intrinsics parameters or other parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError is used when the intrinsics are not defined.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrapf(ErrNoIntrinsics, msg)
}

// ModelType is the name of the camera intrinsic model.
type ModelType string

const (
	// PinholeModelType is the ideal pinhole model: one focal length for both
	// axes, zero skew, no lens distortion.
	PinholeModelType = ModelType("pinhole")
)

// Intrinsic is the capability set every camera intrinsic model implements.
// Projection and unprojection are pure functions of the calibration state;
// concurrent reads are safe, but UpdateFromParameters must be serialized
// externally against any in-flight readers.
type Intrinsic interface {
	json.Marshaler

	// ModelType identifies the concrete model for dispatch, including during
	// deserialization of saved calibration state.
	ModelType() ModelType
	Width() int
	Height() int

	// Project maps a 3D point already expressed in camera coordinates to a
	// pixel, dividing by depth before applying the calibration matrix.
	Project(pt r3.Vector) r2.Point
	// Bearing maps a pixel to a unit-length ray direction in camera space.
	Bearing(pt r2.Point) r3.Vector

	// CamToImage and ImageToCam convert between a de-homogenized camera-plane
	// point and pixel space, the 2D analogues of Project and Bearing.
	CamToImage(pt r2.Point) r2.Point
	ImageToCam(pt r2.Point) r2.Point

	// HasDistortion reports whether the model carries a lens distortion field.
	HasDistortion() bool
	// AddDistortion and RemoveDistortion act on camera-plane points. They are
	// each other's inverse for a given model's own chain, which is not a
	// promise of a closed-form inverse for every model.
	AddDistortion(pt r2.Point) r2.Point
	RemoveDistortion(pt r2.Point) r2.Point
	// UndistortedPixel and DistortedPixel are the image-space analogues.
	UndistortedPixel(pt r2.Point) r2.Point
	DistortedPixel(pt r2.Point) r2.Point

	// ImagePlaneToCameraPlaneError rescales a pixel-space error magnitude to
	// camera-plane units, so robust-estimation thresholds carry across
	// cameras with different focal lengths.
	ImagePlaneToCameraPlaneError(value float64) float64

	// ProjectionMatrix concatenates the calibration matrix with the pose's
	// 3x4 extrinsic matrix, mapping homogeneous world points to pixels.
	ProjectionMatrix(pose *spatial.Pose) *mat.Dense

	// Parameters returns the model's free scalar parameters in the order
	// UpdateFromParameters expects them back. The order is part of the
	// contract between the model and the optimization solver.
	Parameters() []float64
	// UpdateFromParameters rebuilds the model wholesale from a perturbed
	// parameter vector. A wrong-length vector is an error and leaves the
	// model untouched.
	UpdateFromParameters(params []float64) error

	// Clone returns an independent copy, so a solver can evaluate perturbed
	// parameter vectors without touching the original.
	Clone() Intrinsic

	CheckValid() error
}
