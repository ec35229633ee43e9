package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

const (
	countKey      = "count"
	delayKey      = "delay"
	screenKey     = "screen"
	collectorsKey = "collectors"
)

func init() {
	// Load .env file if exists
	_ = godotenv.Load()
}

func main() {
	cmd := &cli.Command{
		Name:  "flows",
		Usage: "Drive replay, distinct, event and cold primitives the way a screen would",
		Commands: []*cli.Command{
			{
				Name:  "demo",
				Usage: "Click every button, rotate the screen, print what was delivered",
				Flags: append(sequenceFlags(),
					&cli.BoolFlag{
						Name:  screenKey,
						Usage: "Paint the screen after every delivery",
					},
				),
				Action: demo,
			},
			{
				Name:  "cold",
				Usage: "Run several cold collectors at once and report their spacing",
				Flags: append(sequenceFlags(),
					&cli.UintFlag{
						Name:  collectorsKey,
						Usage: "Number of concurrent collectors",
						Value: 2,
					},
				),
				Action: cold,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func sequenceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.UintFlag{
			Name:    countKey,
			Usage:   "Values per cold sequence",
			Value:   5,
			Sources: cli.EnvVars("FLOWS_COLD_COUNT"),
		},
		&cli.DurationFlag{
			Name:    delayKey,
			Usage:   "Pause between cold values",
			Value:   time.Second,
			Sources: cli.EnvVars("FLOWS_COLD_DELAY"),
		},
	}
}
