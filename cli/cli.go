package cli

/*
 * Licensed under LGPL-3.0.
 *
 * You can get a copy of the LGPL-3.0 License at
 *
 * https://www.gnu.org/licenses/lgpl-3.0.en.html
 *
 * @wcgcyx - https://github.com/wcgcyx
 */

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/wcgcyx/shardvm/version"
)

// NewCLI creates a CLI app.
func NewCLI() *cli.App {
	app := &cli.App{
		Name:      "shardvm",
		HelpName:  "shardvm",
		Usage:     "A deterministic EVM execution engine for sharded ledger nodes",
		UsageText: "shardvm [global options] command [arguments...]",
		Version:   version.Version,
		Description: "\n\t This is the EVM execution engine of a sharded ledger node.\n\n" +
			"\t It executes transactions over a checkpointed speculative state\n" +
			"\t and persists every committed transaction as one batch\n",
		Authors: []*cli.Author{
			{
				Name:  "wcgcyx",
				Email: "wcgcyx@gmail.com",
			},
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:        "start",
			Usage:       "start the shardvm executor and api server",
			Description: "Start the shardvm executor and api server",
			ArgsUsage:   " ",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "config",
					Value: "",
					Usage: "specify config file",
				},
				&cli.PathFlag{
					Name:  "path",
					Value: "",
					Usage: "specify datastore path",
				},
				&cli.PathFlag{
					Name:  "genesis",
					Value: "",
					Usage: "specify genesis allocation json file",
				},
				&cli.StringFlag{
					Name:  "hardfork",
					Value: "cancun",
					Usage: "specify the active hardfork",
				},
				&cli.Uint64Flag{
					Name:  "chain-id",
					Value: 8082,
					Usage: "specify the chain id",
				},
				&cli.StringFlag{
					Name:  "rpc-host",
					Value: "localhost",
					Usage: "specify exec api rpc service host",
				},
				&cli.IntFlag{
					Name:  "rpc-port",
					Value: 9424,
					Usage: "specify exec api rpc service port",
				},
			},
			Action: func(ctx *cli.Context) error {
				return runNode(ctx)
			},
		},
		{
			Name:        "run",
			Usage:       "run evm bytecode once",
			Description: "Run the given evm bytecode once and print the result",
			ArgsUsage:   "[code]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "config",
					Value: "",
					Usage: "specify config file",
				},
				&cli.PathFlag{
					Name:  "path",
					Value: "",
					Usage: "specify datastore path, a temporary store is used if not set",
				},
				&cli.PathFlag{
					Name:  "genesis",
					Value: "",
					Usage: "specify genesis allocation json file",
				},
				&cli.StringFlag{
					Name:  "hardfork",
					Value: "cancun",
					Usage: "specify the active hardfork",
				},
				&cli.StringFlag{
					Name:  "input",
					Value: "",
					Usage: "specify the hex encoded call data",
				},
				&cli.StringFlag{
					Name:  "sender",
					Value: "0x0000000000000000000000000000000000000001",
					Usage: "specify the caller",
				},
				&cli.StringFlag{
					Name:  "receiver",
					Value: "0x0000000000000000000000000000000000000002",
					Usage: "specify the account running the code",
				},
				&cli.StringFlag{
					Name:  "value",
					Value: "0",
					Usage: "specify the value transferred",
				},
				&cli.Uint64Flag{
					Name:  "gas",
					Value: 10000000,
					Usage: "specify the gas limit",
				},
				&cli.BoolFlag{
					Name:  "trace",
					Value: false,
					Usage: "log every executed opcode at debug level",
				},
				&cli.BoolFlag{
					Name:  "commit",
					Value: false,
					Usage: "persist the state changes",
				},
			},
			Action: func(ctx *cli.Context) error {
				return runCode(ctx)
			},
		},
		{
			Name:        "version",
			Usage:       "get version",
			Description: "Get the version",
			ArgsUsage:   " ",
			Action: func(c *cli.Context) error {
				fmt.Println("Version: ", version.Version)
				return nil
			},
		},
	}
	return app
}
