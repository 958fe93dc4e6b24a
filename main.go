package main

import (
	"os"

	"github.com/Mu-L/nanort/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "nanort"
	app.Usage = "a primitive-agnostic BVH ray tracing core"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile text scene representation into a binary compressed format",
			Description: `
Parse a scene definition from a wavefront obj file and collect its triangles,
per-triangle material indices, materials and camera.

The parsed scene data is then written to a zip archive which can be supplied
as an argument to the render and stats commands.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Action:    cmd.CompileScene,
		},
		{
			Name:      "stats",
			Usage:     "build and summarize the BVH for a compiled scene",
			ArgsUsage: "scene_file.zip",
			Action:    cmd.ShowSceneStats,
		},
		{
			Name:  "render",
			Usage: "render a scene",
			Subcommands: []cli.Command{
				{
					Name:        "frame",
					Usage:       "render a single frame to a PNG file",
					Description: `Render a single frame from a mesh cache, obj file or LAS point cloud.`,
					ArgsUsage:   "scene_file.zip|scene_file.obj|scene_file.las",
					Flags: []cli.Flag{
						cli.IntFlag{
							Name:  "width",
							Value: 512,
							Usage: "frame width",
						},
						cli.IntFlag{
							Name:  "height",
							Value: 512,
							Usage: "frame height",
						},
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
					},
					Action: cmd.RenderFrame,
				},
				{
					Name:        "interactive",
					Usage:       "render an interactive view of the scene",
					Description: ``,
					ArgsUsage:   "scene_file.zip|scene_file.obj|scene_file.las",
					Flags: []cli.Flag{
						cli.IntFlag{
							Name:  "width",
							Value: 512,
							Usage: "frame width",
						},
						cli.IntFlag{
							Name:  "height",
							Value: 512,
							Usage: "frame height",
						},
					},
					Action: cmd.RenderInteractive,
				},
			},
		},
	}

	app.Run(os.Args)
}
