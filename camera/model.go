package camera

import (
	"github.com/golang/geo/r2"
	"go.uber.org/multierr"
)

// Model couples a camera's intrinsics with its distortion model. A nil
// distorter is treated as the identity model.
type Model struct {
	Intrinsic
	Distortion Distorter
}

// NewModel pairs intrinsics with a distortion model.
func NewModel(intrinsic Intrinsic, distortion Distorter) *Model {
	if distortion == nil {
		distortion = &NoDistortion{}
	}
	return &Model{Intrinsic: intrinsic, Distortion: distortion}
}

// HasDistortion reports whether the attached distortion model is anything
// other than the identity, regardless of what the bare intrinsics report.
func (m *Model) HasDistortion() bool {
	return m.Distortion != nil && m.Distortion.ModelType() != NoDistortionType
}

// DistortionMap returns a function that maps undistorted pixels (u,v) to the
// distorted pixels (x,y) under the model's distortion field, routing through
// the camera plane where the distortion polynomials are defined.
func (m *Model) DistortionMap() func(u, v float64) (float64, float64) {
	return func(u, v float64) (float64, float64) {
		c := m.ImageToCam(r2.Point{X: u, Y: v})
		x, y := m.Distortion.Transform(c.X, c.Y)
		d := m.CamToImage(r2.Point{X: x, Y: y})
		return d.X, d.Y
	}
}

// CheckValid checks both the intrinsics and the distortion parameters.
func (m *Model) CheckValid() error {
	if m == nil || m.Intrinsic == nil {
		return NewNoIntrinsicsError("camera model has no intrinsics")
	}
	if m.Distortion == nil {
		return m.Intrinsic.CheckValid()
	}
	return multierr.Combine(m.Intrinsic.CheckValid(), m.Distortion.CheckValid())
}
