package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lightninglabs/lndclient"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()

	app.Name = "zap"
	app.Usage = "Send zaps and wait for their receipts"
	app.Flags = []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "relay",
			Value: cli.NewStringSlice("wss://relay.damus.io"),
			Usage: "relay to watch for the zap receipt on",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: time.Minute,
			Usage: "how long to wait for the receipt",
		},
		&cli.StringFlag{
			Name:  "host",
			Value: "localhost:10009",
			Usage: "lnd instance rpc address (only used with --pay)",
		},
		&cli.StringFlag{
			Name:  "network",
			Value: "mainnet",
			Usage: "the network",
		},
		&cli.StringFlag{
			Name:  "macpath",
			Usage: "Path to lnd's mac dir",
		},
		&cli.StringFlag{
			Name:  "tlspath",
			Usage: "Path to lnd's tls cert",
		},
	}
	app.Commands = append(app.Commands, sendCommand)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[zap] %v\n", err)
	os.Exit(1)
}

func getLND(ctx *cli.Context) (*lndclient.GrpcLndServices, error) {
	return lndclient.NewLndServices(&lndclient.LndServicesConfig{
		LndAddress:  ctx.String("host"),
		Network:     lndclient.Network(ctx.String("network")),
		MacaroonDir: ctx.String("macpath"),
		TLSPath:     ctx.String("tlspath"),
	})
}
