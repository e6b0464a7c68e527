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
	"github.com/staranto/hookctl/internal/store"
)

// PurgeCommandAction removes store entries older than --hours.
func PurgeCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	s, err := store.Open()
	if err != nil {
		return err
	}

	hours := int(cmd.Int("hours"))
	n, err := s.Purge(hours)
	if err != nil {
		return fmt.Errorf("failed to purge store: %w", err)
	}
	log.Debugf("purged %d entries older than %dh", n, hours)

	if !cmd.Bool("quiet") {
		fmt.Fprintf(Writer(cmd), "removed %d\n", n)
	}
	return nil
}

func PurgeCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "purge",
		Usage:     "remove stale store entries",
		UsageText: "hookctl purge [--hours N]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "hours",
				Usage: "remove entries older than `N` hours",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("HOOKCTL_CACHE_CLEAN"),
					yaml.YAML("purge.hours", altsrc.StringSourcer(meta.Config.Source)),
					yaml.YAML("cache.clean", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: 24, //nolint:mnd
				Validator: func(value int) error {
					return FlagValidators(value, NonNegativeValidator)
				},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "do not report the number of removed entries",
			},
		},
		Action: PurgeCommandAction,
	}
}
