package multiview

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/Camilochiang/openMVG/camera"
	"github.com/Camilochiang/openMVG/spatial"
)

// a stereo rig: identity pose plus a second camera shifted along x.
func stereoRig(t *testing.T) (camera.Intrinsic, *spatial.Pose, *spatial.Pose) {
	t.Helper()
	intrinsic := camera.NewPinhole(640, 480, 500, 320, 240)
	pose1 := spatial.NewZeroPose()
	rot := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		rot.Set(i, i, 1)
	}
	pose2, err := spatial.NewPose(rot, r3.Vector{X: -0.2})
	test.That(t, err, test.ShouldBeNil)
	return intrinsic, pose1, pose2
}

func TestProjectThroughMatrix(t *testing.T) {
	intrinsic, _, pose := stereoRig(t)
	proj := intrinsic.ProjectionMatrix(pose)
	pt := r3.Vector{X: 0.5, Y: -0.3, Z: 4}
	got := ProjectThroughMatrix(proj, pt)
	want := intrinsic.Project(pose.Transform(pt))
	test.That(t, got.X, test.ShouldAlmostEqual, want.X, 1e-9)
	test.That(t, got.Y, test.ShouldAlmostEqual, want.Y, 1e-9)
}

func TestReprojectionError(t *testing.T) {
	intrinsic, pose, _ := stereoRig(t)
	world := r3.Vector{X: 0.1, Y: 0.2, Z: 3}
	observed := intrinsic.Project(pose.Transform(world))
	test.That(t, ReprojectionError(intrinsic, pose, world, observed), test.ShouldAlmostEqual, 0, 1e-9)

	shifted := observed.Add(r2.Point{X: 3, Y: 4})
	test.That(t, ReprojectionError(intrinsic, pose, world, shifted), test.ShouldAlmostEqual, 5, 1e-9)
}

func TestTriangulateLinear(t *testing.T) {
	intrinsic, pose1, pose2 := stereoRig(t)
	proj1 := intrinsic.ProjectionMatrix(pose1)
	proj2 := intrinsic.ProjectionMatrix(pose2)

	worlds := []r3.Vector{
		{X: 0.1, Y: 0.2, Z: 2},
		{X: -0.4, Y: 0.1, Z: 3.5},
		{X: 0.3, Y: -0.25, Z: 5},
	}
	pts1 := make([]r2.Point, len(worlds))
	pts2 := make([]r2.Point, len(worlds))
	for i, w := range worlds {
		pts1[i] = ProjectThroughMatrix(proj1, w)
		pts2[i] = ProjectThroughMatrix(proj2, w)
	}

	recovered, err := TriangulateLinear(proj1, proj2, pts1, pts2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, recovered, test.ShouldHaveLength, len(worlds))
	for i, w := range worlds {
		test.That(t, recovered[i].X, test.ShouldAlmostEqual, w.X, 1e-6)
		test.That(t, recovered[i].Y, test.ShouldAlmostEqual, w.Y, 1e-6)
		test.That(t, recovered[i].Z, test.ShouldAlmostEqual, w.Z, 1e-6)
	}
}

func TestTriangulateLinearMismatchedLists(t *testing.T) {
	intrinsic, pose1, pose2 := stereoRig(t)
	_, err := TriangulateLinear(
		intrinsic.ProjectionMatrix(pose1), intrinsic.ProjectionMatrix(pose2),
		[]r2.Point{{X: 1, Y: 2}}, nil,
	)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "equal length")
}
