// Package spatial provides the rigid camera pose used to build full
// projection matrices: an orthonormal rotation plus a translation mapping
// world coordinates into camera coordinates.
package spatial

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Pose is a rigid world-to-camera transform.
type Pose struct {
	rotation    *mat.Dense
	translation r3.Vector
}

// NewPose creates a pose from a 3x3 rotation matrix and a translation. The
// rotation is copied; orthonormality is the caller's to guarantee, CheckValid
// verifies it on demand.
func NewPose(rotation *mat.Dense, translation r3.Vector) (*Pose, error) {
	rows, cols := rotation.Dims()
	if rows != 3 || cols != 3 {
		return nil, errors.Errorf("rotation must be 3x3, got %dx%d", rows, cols)
	}
	return &Pose{rotation: mat.DenseCopyOf(rotation), translation: translation}, nil
}

// NewZeroPose returns a pose with identity rotation and zero translation.
func NewZeroPose() *Pose {
	rot := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		rot.Set(i, i, 1)
	}
	return &Pose{rotation: rot, translation: r3.Vector{}}
}

// NewPoseFromMat splits a 3x4 [R|t] matrix into its rotation and translation.
func NewPoseFromMat(poseMat *mat.Dense) (*Pose, error) {
	rows, cols := poseMat.Dims()
	if rows != 3 || cols != 4 {
		return nil, errors.Errorf("pose matrix must be 3x4, got %dx%d", rows, cols)
	}
	t := r3.Vector{X: poseMat.At(0, 3), Y: poseMat.At(1, 3), Z: poseMat.At(2, 3)}
	rot := mat.DenseCopyOf(poseMat.Slice(0, 3, 0, 3))
	return &Pose{rotation: rot, translation: t}, nil
}

// Rotation returns a copy of the 3x3 rotation matrix.
func (p *Pose) Rotation() *mat.Dense {
	return mat.DenseCopyOf(p.rotation)
}

// Translation returns the translation vector.
func (p *Pose) Translation() r3.Vector {
	return p.translation
}

// ExtrinsicMatrix returns the 3x4 [R|t] matrix.
func (p *Pose) ExtrinsicMatrix() *mat.Dense {
	t := mat.NewDense(3, 1, []float64{p.translation.X, p.translation.Y, p.translation.Z})
	var ext mat.Dense
	ext.Augment(p.rotation, t)
	return &ext
}

// Transform maps a world point into camera coordinates, R*pt + t.
func (p *Pose) Transform(pt r3.Vector) r3.Vector {
	v := mat.NewVecDense(3, []float64{pt.X, pt.Y, pt.Z})
	var out mat.VecDense
	out.MulVec(p.rotation, v)
	return r3.Vector{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}.Add(p.translation)
}

// CheckValid verifies the rotation is orthonormal with determinant +1.
func (p *Pose) CheckValid() error {
	if p == nil {
		return errors.New("pose does not exist")
	}
	var gram mat.Dense
	gram.Mul(p.rotation, p.rotation.T())
	ident := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		ident.Set(i, i, 1)
	}
	if !mat.EqualApprox(&gram, ident, 1e-9) {
		return errors.New("rotation is not orthonormal")
	}
	if det := mat.Det(p.rotation); math.Abs(det-1) > 1e-9 {
		return errors.Errorf("rotation determinant is %v, not 1", det)
	}
	return nil
}
