// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/hookctl/internal/meta"
	"github.com/staranto/hookctl/internal/util"
)

// QuoteCommandAction prints the arguments as a single shell-safe command line.
func QuoteCommandAction(ctx context.Context, cmd *cli.Command) error {
	fmt.Fprintln(Writer(cmd), util.ShellJoin(cmd.Args().Slice()))
	return nil
}

func QuoteCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "quote",
		Usage:     "shell-escape arguments",
		UsageText: "hookctl quote [--] ARG...",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: QuoteCommandAction,
	}
}
