package camera

import "github.com/pkg/errors"

// DistortionType is the name of the distortion model.
type DistortionType string

// NoDistortionType is for ideal lenses modeled with no distortion field.
const NoDistortionType = DistortionType("none")

// Distorter applies a lens distortion model to normalized camera-plane
// points. Models with a distortion field implement the forward transform
// here; pairing a Distorter with an Intrinsic in a Model yields the
// image-space distortion map.
type Distorter interface {
	ModelType() DistortionType
	CheckValid() error
	Parameters() []float64
	Transform(x, y float64) (float64, float64)
}

// InvalidDistortionError is used when the distortion parameters are invalid.
func InvalidDistortionError(msg string) error {
	return errors.Wrapf(errors.New("invalid distortion_parameters"), msg)
}

// NewDistorter returns a Distorter given a valid DistortionType and its parameters.
func NewDistorter(distortionType DistortionType, parameters []float64) (Distorter, error) {
	switch distortionType {
	case NoDistortionType:
		if len(parameters) != 0 {
			return nil, InvalidDistortionError("distortion-free model takes no parameters")
		}
		return &NoDistortion{}, nil
	default:
		return nil, errors.Errorf("do not know how to parse %q distortion model", distortionType)
	}
}

// NoDistortion is the identity distortion model.
type NoDistortion struct{}

// ModelType returns the type of distortion model.
func (nd *NoDistortion) ModelType() DistortionType {
	return NoDistortionType
}

// CheckValid always succeeds, the identity model has no parameters to validate.
func (nd *NoDistortion) CheckValid() error {
	return nil
}

// Parameters returns an empty parameter list.
func (nd *NoDistortion) Parameters() []float64 {
	return []float64{}
}

// Transform returns the input point unchanged.
func (nd *NoDistortion) Transform(x, y float64) (float64, float64) {
	return x, y
}
