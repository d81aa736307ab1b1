// cmd/discord-ops/main.go
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

const appName = "discord-ops"

var envFileFlag = &cli.StringFlag{
	Name:    "env-file",
	Usage:   "dotenv file loaded before reading the environment",
	Value:   ".env",
	EnvVars: []string{"DISCORD_OPS_ENV_FILE"},
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "Discord read, write and moderation operations over HTTP"
	app.Action = cli.ShowAppHelp
	app.Commands = []*cli.Command{
		{
			Name:     "serve",
			Usage:    "Start the HTTP operations API",
			Category: "Server",
			Flags: []cli.Flag{
				envFileFlag,
				&cli.StringFlag{Name: "addr", Usage: "listen address, overrides HTTP_ADDR"},
			},
			Action: serve,
		},
		{
			Name:     "check",
			Usage:    "Validate configuration and print the effective allow-lists",
			Category: "Tools",
			Flags: []cli.Flag{
				envFileFlag,
				&cli.BoolFlag{Name: "connect", Usage: "also verify the bot token against Discord"},
			},
			Action: check,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("[ERR] %v", err)
	}
}
