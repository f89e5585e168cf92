// Package main is a command line tool that issues, revokes and checks
// capability tokens against a local ledger.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "capbac",
		Usage:   "Capability based access control for IoT devices",
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:  "keygen",
				Usage: "Generate a secp256k1 private key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Key file to write (defaults to CAPBAC_KEY_FILE)",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing key file",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					a, err := newApp(os.Stdout)
					if err != nil {
						return err
					}
					out := cmd.String("out")
					if out == "" {
						out = a.cfg.KeyFile
					}
					return RunKeygen(a.out, out, cmd.Bool("force"))
				},
			},
			{
				Name:  "sign",
				Usage: "Sign a capability token read as JSON",
				Flags: []cli.Flag{fileFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withApp(ctx, func(a *app) error {
						return RunSign(ctx, a, cmd.String("file"))
					})
				},
			},
			{
				Name:  "issue",
				Usage: "Issue a capability token to the local ledger",
				Flags: []cli.Flag{
					fileFlag(),
					&cli.BoolFlag{
						Name:  "root",
						Usage: "Issue a root token for the signing key",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withApp(ctx, func(a *app) error {
						return RunIssue(ctx, a, cmd.String("file"), cmd.Bool("root"))
					})
				},
			},
			{
				Name:  "revoke",
				Usage: "Revoke a capability token on the local ledger",
				Flags: []cli.Flag{fileFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withApp(ctx, func(a *app) error {
						return RunRevoke(ctx, a, cmd.String("file"))
					})
				},
			},
			{
				Name:  "list",
				Usage: "Print the capability tokens stored for a device",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "device",
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "Device URI",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withApp(ctx, func(a *app) error {
						return RunList(ctx, a, cmd.String("device"))
					})
				},
			},
			{
				Name:  "validate",
				Usage: "Sign an access request and check it against the local ledger",
				Flags: []cli.Flag{fileFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withApp(ctx, func(a *app) error {
						return RunValidate(ctx, a, cmd.String("file"))
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Required: true,
		Usage:    "JSON input file, - for standard input",
	}
}

func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := newApp(os.Stdout)
	if err != nil {
		return err
	}
	defer a.Shutdown(ctx)
	return fn(a)
}
