// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/hookctl/internal/meta"
	"github.com/staranto/hookctl/internal/output"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// Writer returns where command output goes. Tests swap the root Writer for a
// buffer.
func Writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return cmd.Writer
}

// BuildColumns returns the defaults plus any extras named with --attrs.
// Duplicates are dropped, first occurrence wins.
func BuildColumns(cmd *cli.Command, defaults ...string) []string {
	cols := append([]string{}, defaults...)
	if extras := cmd.String("attrs"); extras != "" {
		for _, a := range strings.Split(extras, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cols = append(cols, a)
			}
		}
	}

	seen := make(map[string]bool, len(cols))
	out := cols[:0]
	for _, c := range cols {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// EmitRows hands rows to the common output routine using the standard
// output flags.
func EmitRows(cmd *cli.Command, rows []map[string]interface{}, columns []string,
	transforms map[string]func(interface{}) string) error {
	opts := output.Options{
		Format:     cmd.String("output"),
		Columns:    columns,
		Titles:     cmd.Bool("titles"),
		Color:      cmd.Bool("color"),
		Sort:       cmd.String("sort"),
		Filter:     cmd.String("filter"),
		Transforms: transforms,
	}
	log.Debugf("emit: %d rows, opts: %+v", len(rows), opts)
	return output.Emit(Writer(cmd), rows, opts)
}

// OutputCommandBuilder constructs a cli.Command for subcommands that emit
// result sets, adding the standard output flags and metadata.
type OutputCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (ocb *OutputCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      ocb.Name,
		Usage:     ocb.Usage,
		UsageText: ocb.UsageText,
		Metadata: map[string]any{
			"meta": ocb.Meta,
		},
		Flags:  append(ocb.Flags, NewOutputFlags(ocb.Name, ocb.Meta.Config.Source)...),
		Action: ocb.Action,
	}
}

// chopPrefix shortens the attribute values in dataset by removing the leading
// sep-delimited parent segments shared by at least half of them. Nothing is
// chopped unless at least two segments are common.
func chopPrefix(dataset []map[string]interface{}, attribute string, sep string) {
	if len(dataset) == 0 {
		return
	}

	type segmentedValue struct {
		idx      int
		value    string
		segments []string
	}
	var segmented []segmentedValue
	maxSegments := 0
	for i, entry := range dataset {
		str, ok := entry[attribute].(string)
		if !ok {
			continue
		}
		segs := strings.Split(strings.TrimPrefix(str, sep), sep)
		// The final segment is the leaf and never part of the prefix.
		segs = segs[:len(segs)-1]
		segmented = append(segmented, segmentedValue{idx: i, value: str, segments: segs})
		maxSegments = max(maxSegments, len(segs))
	}

	if len(segmented) == 0 {
		return
	}

	threshold := (len(segmented) + 1) / 2

	var common []string
	for segIdx := 0; segIdx < maxSegments; segIdx++ {
		counts := make(map[string]int)
		for _, sv := range segmented {
			if segIdx < len(sv.segments) {
				counts[sv.segments[segIdx]]++
			}
		}

		var best string
		var bestCount int
		for seg, count := range counts {
			if count > bestCount || (count == bestCount && seg < best) {
				best, bestCount = seg, count
			}
		}

		if bestCount < threshold {
			break
		}
		common = append(common, best)
	}

	if len(common) < 2 {
		return
	}

	prefix := strings.Join(common, sep) + sep
	for _, sv := range segmented {
		trimmed := strings.TrimPrefix(sv.value, sep)
		if strings.HasPrefix(trimmed, prefix) && len(trimmed) > len(prefix) {
			dataset[sv.idx][attribute] = ".." + sep + trimmed[len(prefix):]
		}
	}
}
