package cmd

import (
	"github.com/Mu-L/nanort/log"
	"github.com/urfave/cli"
)

var logger = log.New("nanort")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
