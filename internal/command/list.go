// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"archive/tar"
	"context"
	"errors"
	"io"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/hookctl/internal/fsutil"
	"github.com/staranto/hookctl/internal/meta"
)

var listDefaultColumns = []string{"mode", "size", "modified", "name"}

// ListCommandAction emits one row per entry in the archive.
func ListCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if cmd.Args().Len() != 1 {
		return errors.New("exactly one ARCHIVE is required")
	}
	archive := cmd.Args().First()

	pm, err := fsutil.NewPatternMatcher(cmd.StringSlice("include"), cmd.StringSlice("exclude"))
	if err != nil {
		return err
	}

	var rows []map[string]interface{}
	err = fsutil.WithTarfile(archive, func(tf *fsutil.Tarfile) error {
		for {
			hdr, err := tf.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if !pm.Match(hdr.Name) {
				continue
			}
			rows = append(rows, tarRow(hdr, tf.Compression))
		}
	})
	if err != nil {
		return err
	}

	return EmitRows(cmd, rows, BuildColumns(cmd, listDefaultColumns...), listTransforms())
}

func tarRow(hdr *tar.Header, compression string) map[string]interface{} {
	row := map[string]interface{}{
		"name":        hdr.Name,
		"type":        tarTypeName(hdr.Typeflag),
		"size":        hdr.Size,
		"mode":        hdr.FileInfo().Mode().String(),
		"modified":    hdr.ModTime.UTC(),
		"uid":         hdr.Uid,
		"gid":         hdr.Gid,
		"compression": compression,
	}
	if hdr.Linkname != "" {
		row["link"] = hdr.Linkname
	}
	return row
}

func tarTypeName(flag byte) string {
	switch flag {
	case tar.TypeDir:
		return "dir"
	case tar.TypeReg:
		return "file"
	case tar.TypeSymlink:
		return "symlink"
	case tar.TypeLink:
		return "hardlink"
	default:
		return "other"
	}
}

// listTransforms humanizes sizes and times in text output.
func listTransforms() map[string]func(interface{}) string {
	return map[string]func(interface{}) string{
		"size": func(v interface{}) string {
			n, _ := v.(int64)
			return humanize.Bytes(uint64(max(n, 0)))
		},
		"modified": func(v interface{}) string {
			t, ok := v.(time.Time)
			if !ok || t.IsZero() {
				return "-"
			}
			return humanize.Time(t)
		},
	}
}

func ListCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	b := &OutputCommandBuilder{
		Name:      "list",
		Usage:     "list archive entries",
		UsageText: "hookctl list ARCHIVE [options]",
		Action:    ListCommandAction,
		Meta:      meta,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "only list entries matching `GLOB`",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "skip entries matching `GLOB`",
			},
		},
	}
	return b.Build()
}
