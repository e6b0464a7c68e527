// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/hookctl/internal/config"
	"github.com/staranto/hookctl/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	// args[1] is the subcommand and doubles as the config namespace. It could
	// be -h/--help, so ignore it if it looks like a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, err := config.Load(ns)
	if err != nil {
		log.Debugf("no config loaded: %v", err)
	}

	m := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "hookctl",
		Usage: "hook runner helper utilities",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "hookctl version info",
				HideDefault: true,
			},
			&cli.StringFlag{
				Name:    "chdir",
				Aliases: []string{"C"},
				Usage:   "change to `DIR` before doing anything",
				Sources: cli.NewValueSourceChain(cli.EnvVar("HOOKCTL_CHDIR")),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if dir := c.String("chdir"); dir != "" {
				if err := os.Chdir(dir); err != nil {
					return ctx, fmt.Errorf("failed to change directory: %w", err)
				}
				log.Debugf("changed directory to %s", dir)
			}
			return ctx, nil
		},
	}

	app.Commands = append(app.Commands,
		Md5CommandBuilder(app, m),
		QuoteCommandBuilder(app, m),
		RootCommandBuilder(app, m),
		ListCommandBuilder(app, m),
		UnpackCommandBuilder(app, m),
		StoreCommandBuilder(app, m),
		PurgeCommandBuilder(app, m),
		ScratchCommandBuilder(app, m),
		CompletionCommandBuilder(app, m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
