// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/staranto/hookctl/internal/fsutil"
	"github.com/staranto/hookctl/internal/meta"
	"github.com/staranto/hookctl/internal/util"
)

// ScratchCommandAction runs the trailing arguments through the shell inside
// a fresh temporary directory that is removed when the command exits. The
// directory is exported as HOOKCTL_SCRATCH and a per-run identifier as
// HOOKCTL_SCRATCH_ID.
func ScratchCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	args := cmd.Args().Slice()
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if len(args) == 0 {
		return errors.New("a CMD to run is required")
	}
	line := util.ShellJoin(args)

	opts := []fsutil.TempDirOption{fsutil.WithPrefix(cmd.String("prefix"))}
	if base := cmd.String("base"); base != "" {
		opts = append(opts, fsutil.WithBaseDir(base))
	}

	id := uuid.New().String()
	return fsutil.WithTempDir(func(dir string) error {
		log.WithField("id", id).Debugf("scratch %s: %s", dir, line)

		c := exec.CommandContext(ctx, cmd.String("shell"), "-c", line) //nolint:gosec
		c.Dir = dir
		c.Env = append(os.Environ(), "HOOKCTL_SCRATCH="+dir, "HOOKCTL_SCRATCH_ID="+id)
		c.Stdin = os.Stdin
		c.Stdout = Writer(cmd)
		c.Stderr = os.Stderr
		return c.Run()
	}, opts...)
}

func ScratchCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	shellFlag := NameSpacedValueChainFlagFromConfigFile("scratch", meta.Config.Source, &cli.StringFlag{
		Name:    "shell",
		Usage:   "`SHELL` used to run the command",
		Sources: cli.NewValueSourceChain(cli.EnvVar("HOOKCTL_SHELL")),
		Value:   "sh",
	})

	return &cli.Command{
		Name:      "scratch",
		Usage:     "run a command in a throwaway directory",
		UsageText: "hookctl scratch [options] -- CMD [ARG...]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  append([]cli.Flag{shellFlag}, NewTempDirFlags("scratch", meta.Config.Source)...),
		Action: ScratchCommandAction,
	}
}
