package camera

import (
	"testing"

	"go.viam.com/test"
)

func TestNewDistorter(t *testing.T) {
	distorter, err := NewDistorter(NoDistortionType, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, distorter.ModelType(), test.ShouldEqual, NoDistortionType)
	test.That(t, distorter.CheckValid(), test.ShouldBeNil)
	test.That(t, distorter.Parameters(), test.ShouldResemble, []float64{})

	_, err = NewDistorter(NoDistortionType, []float64{0.1})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewDistorter(DistortionType("brown_conrady"), nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "do not know how to parse")
}

func TestModelDistortionMap(t *testing.T) {
	model := NewModel(NewPinhole(800, 600, 1000, 400, 300), nil)
	test.That(t, model.CheckValid(), test.ShouldBeNil)

	distortionMap := model.DistortionMap()
	for _, pt := range [][2]float64{{0, 0}, {400, 300}, {123.4, 567.8}} {
		x, y := distortionMap(pt[0], pt[1])
		test.That(t, x, test.ShouldAlmostEqual, pt[0], 1e-9)
		test.That(t, y, test.ShouldAlmostEqual, pt[1], 1e-9)
	}
}

// a stand-in for a polynomial distortion model.
type shiftDistortion struct{}

func (sd *shiftDistortion) ModelType() DistortionType { return DistortionType("shift") }
func (sd *shiftDistortion) CheckValid() error         { return nil }
func (sd *shiftDistortion) Parameters() []float64     { return []float64{0.5} }
func (sd *shiftDistortion) Transform(x, y float64) (float64, float64) {
	return x + 0.5, y + 0.5
}

func TestModelHasDistortion(t *testing.T) {
	pinhole := NewPinhole(800, 600, 1000, 400, 300)
	model := NewModel(pinhole, nil)
	test.That(t, model.HasDistortion(), test.ShouldBeFalse)

	// the flag follows the attached distorter, not the bare intrinsics
	model = NewModel(pinhole, &shiftDistortion{})
	test.That(t, model.HasDistortion(), test.ShouldBeTrue)
	test.That(t, pinhole.HasDistortion(), test.ShouldBeFalse)
}

func TestModelCheckValid(t *testing.T) {
	var nilModel *Model
	test.That(t, nilModel.CheckValid(), test.ShouldNotBeNil)

	model := NewModel(NewPinhole(0, 0, 1000, 400, 300), nil)
	test.That(t, model.CheckValid(), test.ShouldNotBeNil)
}
