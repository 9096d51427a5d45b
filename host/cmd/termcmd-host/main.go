// Command termcmd-host runs the serial console on a Linux or macOS host,
// against a serial device or the process's own terminal, with either a
// Linux I2C adapter or a simulated bus.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	flagConfig = "config"
	flagDevice = "device"
	flagBaud   = "baud"
	flagBus    = "bus"
	flagI2C    = "i2c"
	flagEcho   = "echo"
	flagDebug  = "debug"
)

var app = &cli.App{
	Name:            "termcmd-host",
	Usage:           "line-oriented I2C console over a serial channel",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`",
		},
		&cli.BoolFlag{
			Name:  flagDebug,
			Usage: "enable debug logging and console trace",
		},
	},
	Commands: []*cli.Command{
		{
			Name:  "run",
			Usage: "serve the console until interrupted",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  flagDevice,
					Usage: "serial `PATH`, or \"stdio\" for this terminal",
				},
				&cli.IntFlag{
					Name:  flagBaud,
					Usage: "serial baud rate",
				},
				&cli.StringFlag{
					Name:  flagBus,
					Usage: "I2C driver: none, sim or periph",
				},
				&cli.StringFlag{
					Name:  flagI2C,
					Usage: "periph I2C bus `NAME` (empty for the first bus)",
				},
				&cli.BoolFlag{
					Name:  flagEcho,
					Usage: "echo input back to the serial channel",
				},
			},
			Action: RunAction,
		},
		{
			Name:   "check",
			Usage:  "validate a configuration file and exit",
			Action: CheckAction,
		},
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
