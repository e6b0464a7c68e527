// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/hookctl/internal/meta"
	"github.com/staranto/hookctl/internal/store"
)

// UnpackCommandAction unpacks ARCHIVE into the store and prints the entry
// directory. A previously unpacked archive is not extracted again.
func UnpackCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if cmd.Args().Len() != 1 {
		return errors.New("exactly one ARCHIVE is required")
	}

	s, err := store.Open()
	if err != nil {
		return err
	}

	res, err := s.Unpack(cmd.Args().First(), store.UnpackOptions{
		KeepPartial: cmd.Bool("keep-partial"),
	})
	if err != nil {
		return err
	}
	log.Debugf("unpack cached=%v", res.Cached)

	fmt.Fprintln(Writer(cmd), res.Path)
	return nil
}

func UnpackCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "unpack",
		Usage:     "unpack an archive into the store",
		UsageText: "hookctl unpack ARCHIVE [--keep-partial]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "keep-partial",
				Usage: "leave a partially unpacked entry in place on failure",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("unpack.keep-partial", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: false,
			},
		},
		Action: UnpackCommandAction,
	}
}
