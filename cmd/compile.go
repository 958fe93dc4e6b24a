package cmd

import (
	"strings"

	"github.com/Mu-L/nanort/meshcache"
	"github.com/Mu-L/nanort/reader"
	"github.com/urfave/cli"
)

// CompileScene parses Wavefront OBJ scenes and writes a mesh cache zip
// archive next to each source file, ready to be supplied to the render or
// stats commands without re-running the OBJ parser. LAS point clouds are
// already a compact binary format and are read directly at render time
// instead of going through this step.
func CompileScene(ctx *cli.Context) error {
	setupLogging(ctx)

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".obj") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		logger.Noticef("parsing wavefront scene: %s", sceneFile)
		sc, err := reader.ReadOBJ(sceneFile)
		if err != nil {
			return err
		}

		zipFile := strings.TrimSuffix(sceneFile, ".obj") + ".zip"
		if err := meshcache.Write(zipFile, sc); err != nil {
			return err
		}
		logger.Noticef("wrote mesh cache: %s", zipFile)
	}

	return nil
}
