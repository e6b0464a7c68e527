// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/hookctl/internal/meta"
	"github.com/staranto/hookctl/internal/util"
)

// Md5CommandAction prints the hex MD5 digest of each argument, one per line.
func Md5CommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return errors.New("at least one STRING is required")
	}

	w := Writer(cmd)
	for _, a := range args {
		fmt.Fprintln(w, util.HexMD5(a))
	}
	return nil
}

func Md5CommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "md5",
		Usage:     "hex MD5 digest of each argument",
		UsageText: "hookctl md5 STRING...",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: Md5CommandAction,
	}
}
