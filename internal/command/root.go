// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/hookctl/internal/meta"
	"github.com/staranto/hookctl/internal/project"
)

// RootCommandAction prints the nearest ancestor directory holding --marker.
func RootCommandAction(ctx context.Context, cmd *cli.Command) error {
	marker := cmd.String("marker")
	dir, err := project.Root(marker)
	if err != nil {
		return err
	}
	log.Debugf("root for marker %s: %s", marker, dir)

	fmt.Fprintln(Writer(cmd), dir)
	return nil
}

func RootCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "root",
		Usage:     "find the project root",
		UsageText: "hookctl root [--marker NAME]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "marker",
				Aliases: []string{"m"},
				Usage:   "file or directory `NAME` that marks the root",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("HOOKCTL_ROOT_MARKER"),
					yaml.YAML("root.marker", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: project.DefaultMarker,
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
		},
		Action: RootCommandAction,
	}
}
