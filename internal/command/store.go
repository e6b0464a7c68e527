// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/hookctl/internal/meta"
	"github.com/staranto/hookctl/internal/store"
)

var storeDefaultColumns = []string{"key", "size", "created", "archive"}

// StoreCommandAction emits one row per complete store entry.
func StoreCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	s, err := store.Open()
	if err != nil {
		return err
	}

	manifests, err := s.List()
	if err != nil {
		return err
	}

	rows := make([]map[string]interface{}, 0, len(manifests))
	for _, mf := range manifests {
		_, statErr := os.Stat(mf.Path)
		rows = append(rows, map[string]interface{}{
			"key":     mf.Key,
			"archive": mf.Archive,
			"path":    mf.Path,
			"size":    mf.Size,
			"created": mf.Created.UTC(),
			"present": statErr == nil,
		})
	}

	if cmd.Bool("chop") {
		chopPrefix(rows, "archive", string(os.PathSeparator))
	}

	transforms := map[string]func(interface{}) string{
		"size": func(v interface{}) string {
			n, _ := v.(int64)
			return humanize.Bytes(uint64(max(n, 0)))
		},
		"created": func(v interface{}) string {
			if t, ok := v.(time.Time); ok {
				return humanize.Time(t)
			}
			return "-"
		},
		"key": func(v interface{}) string {
			if k, ok := v.(string); ok && len(k) > 12 {
				return k[:12]
			}
			return "-"
		},
	}
	if cmd.Bool("full") {
		delete(transforms, "key")
	}

	return EmitRows(cmd, rows, BuildColumns(cmd, storeDefaultColumns...), transforms)
}

func StoreCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	b := &OutputCommandBuilder{
		Name:      "store",
		Usage:     "list unpacked archives",
		UsageText: "hookctl store [options]",
		Action:    StoreCommandAction,
		Meta:      meta,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "chop",
				Usage: "chop common leading directories from archive paths",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("store.chop", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "full",
				Usage: "show full keys in text output",
				Value: false,
			},
		},
	}
	return b.Build()
}
