// Package main contains a command to refine saved camera intrinsics against
// observed 2D-3D correspondences.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"

	"github.com/Camilochiang/openMVG/calib"
	"github.com/Camilochiang/openMVG/camera"
	"github.com/Camilochiang/openMVG/spatial"
)

var logger = golog.NewDevelopmentLogger("intrinsic_refine")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ConfigFile string `flag:"0,required,usage=path to refinement config JSON"`
	OutFile    string `flag:"out,usage=path to write the refined intrinsics (default stdout)"`
}

// RefineConfig is the input file schema: the intrinsics to refine, the camera
// pose, and the observed correspondences.
type RefineConfig struct {
	Intrinsics   camera.IntrinsicConfig `json:"intrinsics"`
	Rotation     [9]float64             `json:"rotation"`
	Translation  [3]float64             `json:"translation"`
	Observations []calib.Observation    `json:"observations"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	return refine(argsParsed.ConfigFile, argsParsed.OutFile, logger)
}

func refine(configPath, outPath string, logger golog.Logger) error {
	//nolint:gosec
	b, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "error reading refinement config")
	}
	var conf RefineConfig
	if err := json.Unmarshal(b, &conf); err != nil {
		return errors.Wrap(err, "error parsing refinement config")
	}
	intrinsic, err := camera.ParseIntrinsicConfig(&conf.Intrinsics)
	if err != nil {
		return err
	}
	pose, err := spatial.NewPose(
		mat.NewDense(3, 3, conf.Rotation[:]),
		r3.Vector{X: conf.Translation[0], Y: conf.Translation[1], Z: conf.Translation[2]},
	)
	if err != nil {
		return err
	}

	before := calib.MeanReprojectionError(intrinsic, pose, conf.Observations)
	refined, err := calib.RefineIntrinsics(intrinsic, pose, conf.Observations, logger)
	if err != nil {
		return err
	}
	after := calib.MeanReprojectionError(refined, pose, conf.Observations)
	logger.Infof("mean reprojection error %.4f px -> %.4f px", before, after)

	out, err := json.MarshalIndent(refined, "", " ")
	if err != nil {
		return err
	}
	if outPath == "" {
		logger.Infof("refined intrinsics:\n%s", string(out))
		return nil
	}
	return os.WriteFile(outPath, out, 0o644)
}
