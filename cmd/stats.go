package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/Mu-L/nanort/bvh"
	"github.com/Mu-L/nanort/meshcache"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ShowSceneStats loads a mesh cache, builds its BVH and prints a summary of
// the resulting tree.
func ShowSceneStats(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing compiled scene zip file")
	}

	sceneFile := ctx.Args().First()
	if !strings.HasSuffix(sceneFile, ".zip") {
		return errors.New("only compiled scene files with a .zip extension are supported")
	}

	sc, err := meshcache.Read(sceneFile)
	if err != nil {
		return err
	}

	accel := bvh.NewAccel()
	if err := accel.Build(uint32(len(sc.Mesh.Vertices)/3), sc.Mesh, bvh.DefaultBuildOptions()); err != nil {
		return err
	}

	min, max := accel.BoundingBox()
	stats := accel.Statistics()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Triangles", fmt.Sprintf("%d", len(sc.Mesh.Vertices)/3)})
	table.Append([]string{"Materials", fmt.Sprintf("%d", len(sc.Materials))})
	table.Append([]string{"Leaf nodes", fmt.Sprintf("%d", stats.NumLeafNodes)})
	table.Append([]string{"Branch nodes", fmt.Sprintf("%d", stats.NumBranchNodes)})
	table.Append([]string{"Max tree depth", fmt.Sprintf("%d", stats.MaxTreeDepth)})
	table.Append([]string{"Scene bounds min", fmt.Sprintf("(%.3f, %.3f, %.3f)", min[0], min[1], min[2])})
	table.Append([]string{"Scene bounds max", fmt.Sprintf("(%.3f, %.3f, %.3f)", max[0], max[1], max[2])})

	table.Render()
	logger.Noticef("scene statistics\n%s", buf.String())

	return nil
}
