package camera

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// IntrinsicConfig holds a deserialized camera intrinsic model before the
// concrete variant is known: the type discriminant plus the raw JSON object,
// which the variant's own decoder re-reads for its fields.
type IntrinsicConfig struct {
	Type ModelType
	raw  json.RawMessage
}

// UnmarshalJSON pulls out the type discriminant and keeps the whole object.
func (cfg *IntrinsicConfig) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type ModelType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	cfg.Type = probe.Type
	cfg.raw = append(cfg.raw[:0], data...)
	return nil
}

// ParseIntrinsicConfig reconstructs the concrete intrinsic model named by the
// config's type discriminant. Reconstruction either fully succeeds or fails
// with an error; it never yields a partially-initialized model.
func ParseIntrinsicConfig(cfg *IntrinsicConfig) (Intrinsic, error) {
	switch cfg.Type {
	case PinholeModelType:
		return parsePinholeConfig(cfg.raw)
	default:
		return nil, errors.Errorf("camera model type %q not recognized", cfg.Type)
	}
}

// Pointer fields so an absent field is distinguishable from a zero value.
// The principal point decodes into a slice rather than a fixed array so a
// wrong-length value is detectable instead of silently zero-filled.
type pinholeFields struct {
	Width          *int       `json:"width"`
	Height         *int       `json:"height"`
	FocalLength    *float64   `json:"focal_length"`
	PrincipalPoint *[]float64 `json:"principal_point"`
}

func parsePinholeConfig(data []byte) (*Pinhole, error) {
	var fields pinholeFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.Wrap(err, "error parsing pinhole intrinsics")
	}
	if fields.Width == nil || fields.Height == nil {
		return nil, errors.New("pinhole intrinsics missing width or height")
	}
	if fields.FocalLength == nil {
		return nil, errors.New("pinhole intrinsics missing focal_length")
	}
	if fields.PrincipalPoint == nil {
		return nil, errors.New("pinhole intrinsics missing principal_point")
	}
	pp := *fields.PrincipalPoint
	if len(pp) != 2 {
		return nil, errors.Errorf("pinhole principal_point must have 2 elements, got %d", len(pp))
	}
	return NewPinhole(
		*fields.Width, *fields.Height,
		*fields.FocalLength, pp[0], pp[1],
	), nil
}

// MarshalJSON emits the persisted pinhole schema. The field names and the
// "pinhole" discriminant are part of the on-disk format; archives written
// here stay readable by any loader that dispatches on the discriminant.
func (p *Pinhole) MarshalJSON() ([]byte, error) {
	pp := p.PrincipalPoint()
	return json.Marshal(struct {
		Type           ModelType  `json:"type"`
		Width          int        `json:"width"`
		Height         int        `json:"height"`
		FocalLength    float64    `json:"focal_length"`
		PrincipalPoint [2]float64 `json:"principal_point"`
	}{
		Type:           PinholeModelType,
		Width:          p.width,
		Height:         p.height,
		FocalLength:    p.Focal(),
		PrincipalPoint: [2]float64{pp.X, pp.Y},
	})
}

// NewIntrinsicFromJSONFile takes in a file path to a JSON and turns it into
// the camera intrinsic model it describes.
func NewIntrinsicFromJSONFile(jsonPath string) (Intrinsic, error) {
	//nolint:gosec
	jsonFile, err := os.Open(jsonPath)
	if err != nil {
		return nil, errors.Wrap(err, "error opening JSON file")
	}
	defer utils.UncheckedErrorFunc(jsonFile.Close)
	byteValue, err := io.ReadAll(jsonFile)
	if err != nil {
		return nil, errors.Wrap(err, "error reading JSON data")
	}
	cfg := &IntrinsicConfig{}
	if err := json.Unmarshal(byteValue, cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing JSON string")
	}
	return ParseIntrinsicConfig(cfg)
}

// WriteIntrinsicToJSONFile saves the intrinsic model to a JSON file that
// NewIntrinsicFromJSONFile can load back.
func WriteIntrinsicToJSONFile(jsonPath string, intrinsic Intrinsic) error {
	b, err := json.MarshalIndent(intrinsic, "", " ")
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(jsonPath, b, 0o644), "error writing JSON file")
}
