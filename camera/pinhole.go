package camera

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/Camilochiang/openMVG/spatial"
)

// pinholeParamCount is the length of the pinhole free-parameter vector:
// focal length, principal point x, principal point y.
const pinholeParamCount = 3

// Pinhole is an ideal pinhole camera intrinsic model. The focal length and
// principal point live inside the 3x3 calibration matrix
//
//	[[f 0 ppx],
//	 [0 f ppy],
//	 [0 0   1]]
//
// and are never stored separately; the cached inverse kInv is rebuilt
// together with k on every update, so the two can never desynchronize.
type Pinhole struct {
	width  int
	height int
	k      *mat.Dense
	kInv   *mat.Dense
}

// NewPinhole creates a pinhole model for a width x height pixel grid from a
// focal length in pixels and a principal point. A zero focal length is a
// configuration error that surfaces as NaN/Inf downstream; CheckValid catches
// it, the projection math does not.
func NewPinhole(width, height int, focalLengthPx, ppx, ppy float64) *Pinhole {
	k := mat.NewDense(3, 3, []float64{
		focalLengthPx, 0, ppx,
		0, focalLengthPx, ppy,
		0, 0, 1,
	})
	// k is upper triangular with a unit corner, so the inverse has a closed
	// form and a general matrix inversion is unnecessary.
	kInv := mat.NewDense(3, 3, []float64{
		1 / focalLengthPx, 0, -ppx / focalLengthPx,
		0, 1 / focalLengthPx, -ppy / focalLengthPx,
		0, 0, 1,
	})
	return &Pinhole{width: width, height: height, k: k, kInv: kInv}
}

// ModelType returns the type of the intrinsic model.
func (p *Pinhole) ModelType() ModelType {
	return PinholeModelType
}

// Width returns the width of the image plane in pixels.
func (p *Pinhole) Width() int {
	return p.width
}

// Height returns the height of the image plane in pixels.
func (p *Pinhole) Height() int {
	return p.height
}

// K returns a copy of the 3x3 calibration matrix.
func (p *Pinhole) K() *mat.Dense {
	return mat.DenseCopyOf(p.k)
}

// Kinv returns a copy of the inverse of the calibration matrix.
func (p *Pinhole) Kinv() *mat.Dense {
	return mat.DenseCopyOf(p.kInv)
}

// Focal returns the focal length in pixels.
func (p *Pinhole) Focal() float64 {
	return p.k.At(0, 0)
}

// PrincipalPoint returns the pixel where the optical axis meets the image plane.
func (p *Pinhole) PrincipalPoint() r2.Point {
	return r2.Point{X: p.k.At(0, 2), Y: p.k.At(1, 2)}
}

// Project maps a 3D point in camera coordinates to a pixel.
func (p *Pinhole) Project(pt r3.Vector) r2.Point {
	return p.CamToImage(r2.Point{X: pt.X / pt.Z, Y: pt.Y / pt.Z})
}

// Bearing returns the unit ray direction through a pixel, kInv * [x y 1]
// normalized.
func (p *Pinhole) Bearing(pt r2.Point) r3.Vector {
	hom := mat.NewVecDense(3, []float64{pt.X, pt.Y, 1})
	var ray mat.VecDense
	ray.MulVec(p.kInv, hom)
	return r3.Vector{X: ray.AtVec(0), Y: ray.AtVec(1), Z: ray.AtVec(2)}.Normalize()
}

// CamToImage maps a camera-plane point to pixel space, f*pt + principal point.
func (p *Pinhole) CamToImage(pt r2.Point) r2.Point {
	return pt.Mul(p.Focal()).Add(p.PrincipalPoint())
}

// ImageToCam maps a pixel to the camera plane, (pt - principal point) / f.
func (p *Pinhole) ImageToCam(pt r2.Point) r2.Point {
	return pt.Sub(p.PrincipalPoint()).Mul(1 / p.Focal())
}

// HasDistortion is always false for the pinhole model.
func (p *Pinhole) HasDistortion() bool {
	return false
}

// AddDistortion is the identity for the pinhole model.
func (p *Pinhole) AddDistortion(pt r2.Point) r2.Point {
	return pt
}

// RemoveDistortion is the identity for the pinhole model.
func (p *Pinhole) RemoveDistortion(pt r2.Point) r2.Point {
	return pt
}

// UndistortedPixel is the identity for the pinhole model.
func (p *Pinhole) UndistortedPixel(pt r2.Point) r2.Point {
	return pt
}

// DistortedPixel is the identity for the pinhole model.
func (p *Pinhole) DistortedPixel(pt r2.Point) r2.Point {
	return pt
}

// ImagePlaneToCameraPlaneError rescales a pixel error magnitude into
// camera-plane units.
func (p *Pinhole) ImagePlaneToCameraPlaneError(value float64) float64 {
	return value / p.Focal()
}

// ProjectionMatrix returns the 3x4 matrix K * [R|t] that maps homogeneous
// world points directly to homogeneous pixels.
func (p *Pinhole) ProjectionMatrix(pose *spatial.Pose) *mat.Dense {
	proj := mat.NewDense(3, 4, nil)
	proj.Mul(p.k, pose.ExtrinsicMatrix())
	return proj
}

// Parameters returns the free parameters exposed to the optimization solver,
// [focal, ppx, ppy].
func (p *Pinhole) Parameters() []float64 {
	return []float64{p.k.At(0, 0), p.k.At(0, 2), p.k.At(1, 2)}
}

// UpdateFromParameters replaces the model wholesale with one rebuilt from
// [focal, ppx, ppy]. The receiver is untouched on error, so a malformed
// vector from the solver can never leave k and kInv half-updated.
func (p *Pinhole) UpdateFromParameters(params []float64) error {
	if len(params) != pinholeParamCount {
		return errors.Errorf("pinhole model expects %d parameters, got %d", pinholeParamCount, len(params))
	}
	*p = *NewPinhole(p.width, p.height, params[0], params[1], params[2])
	return nil
}

// Clone returns an independent copy of the model.
func (p *Pinhole) Clone() Intrinsic {
	clone := *p
	clone.k = mat.DenseCopyOf(p.k)
	clone.kInv = mat.DenseCopyOf(p.kInv)
	return &clone
}

// CheckValid checks if the fields for Pinhole have valid inputs.
func (p *Pinhole) CheckValid() error {
	if p == nil {
		return NewNoIntrinsicsError("intrinsics do not exist")
	}
	if p.width == 0 || p.height == 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid size (%#v, %#v)", p.width, p.height))
	}
	if p.Focal() <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid focal length %#v", p.Focal()))
	}
	pp := p.PrincipalPoint()
	if pp.X < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid principal X point %#v", pp.X))
	}
	if pp.Y < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("invalid principal Y point %#v", pp.Y))
	}
	return nil
}
