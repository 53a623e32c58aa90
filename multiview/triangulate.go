// Package multiview has the projection-matrix helpers a reconstruction
// pipeline builds on top of camera intrinsic models: projecting world points
// through a full 3x4 matrix, triangulating from two views, and measuring
// reprojection error.
package multiview

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/Camilochiang/openMVG/camera"
	"github.com/Camilochiang/openMVG/spatial"
)

// ProjectThroughMatrix maps a world point through a 3x4 projection matrix and
// de-homogenizes the result into a pixel.
func ProjectThroughMatrix(proj *mat.Dense, pt r3.Vector) r2.Point {
	hom := mat.NewVecDense(4, []float64{pt.X, pt.Y, pt.Z, 1})
	var out mat.VecDense
	out.MulVec(proj, hom)
	return r2.Point{X: out.AtVec(0) / out.AtVec(2), Y: out.AtVec(1) / out.AtVec(2)}
}

// ReprojectionError returns the pixel distance between an observed feature
// and a world point projected through the camera model at the given pose.
func ReprojectionError(intrinsic camera.Intrinsic, pose *spatial.Pose, world r3.Vector, observed r2.Point) float64 {
	projected := intrinsic.Project(pose.Transform(world))
	return observed.Sub(projected).Norm()
}

// crossProductMat returns the skew-symmetric matrix [p]x so that
// [p]x * q = p x q.
func crossProductMat(p r3.Vector) *mat.Dense {
	cross := mat.NewDense(3, 3, nil)
	cross.Set(0, 1, -p.Z)
	cross.Set(0, 2, p.Y)
	cross.Set(1, 0, p.Z)
	cross.Set(1, 2, -p.X)
	cross.Set(2, 0, -p.Y)
	cross.Set(2, 1, p.X)
	return cross
}

// TriangulateLinear recovers 3D points from pixel correspondences seen in two
// views with known projection matrices, solving the linear cross-product
// system per pair with an SVD.
func TriangulateLinear(proj1, proj2 *mat.Dense, pts1, pts2 []r2.Point) ([]r3.Vector, error) {
	if len(pts1) != len(pts2) {
		return nil, errors.Errorf("point lists must have equal length, got %d and %d", len(pts1), len(pts2))
	}
	pts3d := make([]r3.Vector, len(pts1))
	for i := range pts1 {
		p1Cross := crossProductMat(r3.Vector{X: pts1[i].X, Y: pts1[i].Y, Z: 1})
		p2Cross := crossProductMat(r3.Vector{X: pts2[i].X, Y: pts2[i].Y, Z: 1})
		p1CrossP := mat.NewDense(3, 4, nil)
		p1CrossP.Mul(p1Cross, proj1)
		p2CrossP := mat.NewDense(3, 4, nil)
		p2CrossP.Mul(p2Cross, proj2)
		var a mat.Dense
		a.Stack(p1CrossP, p2CrossP)

		var svd mat.SVD
		if ok := svd.Factorize(&a, mat.SVDFull); !ok {
			return nil, errors.New("failed to factorize triangulation system")
		}
		const rcond = 1e-15
		if svd.Rank(rcond) == 0 {
			return nil, errors.New("zero rank triangulation system")
		}
		var v mat.Dense
		svd.VTo(&v)
		// The null-space direction is the right singular vector for the
		// smallest singular value, the last column of V.
		pt := v.ColView(3)
		pts3d[i] = r3.Vector{
			X: pt.AtVec(0) / pt.AtVec(3),
			Y: pt.AtVec(1) / pt.AtVec(3),
			Z: pt.AtVec(2) / pt.AtVec(3),
		}
	}
	return pts3d, nil
}
