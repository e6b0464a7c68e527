// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/hookctl/internal/cacheutil"
	"github.com/staranto/hookctl/internal/command"
	"github.com/staranto/hookctl/internal/config"
	mylog "github.com/staranto/hookctl/internal/log"
	"github.com/staranto/hookctl/internal/util"
	"github.com/staranto/hookctl/internal/version"
)

var ctx = context.Background()

var run = util.Entry(realMain)

func main() {
	os.Exit(run(nil))
}

func realMain(argv []string) int {
	mylog.InitLogger()

	args := append([]string{"hookctl"}, argv...)

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v ahead of any subcommand parsing.
	for _, a := range args {
		if a == "--" {
			break
		}
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	// Best-effort: pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		// Non-fatal: print to stderr and continue.
		fmt.Fprintln(os.Stderr, err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments expands an argument set. A single @name argument is
// replaced by the flags listed under <command>.<name> in the config file.
// Without one, <command>.defaults is inserted right after the command.
// Nothing after a bare "--" is considered.
func mangleArguments(args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		return args
	}

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	preamble := slices.Clone(args[:2])
	end := len(args)
	if i := slices.Index(args, "--"); i >= 0 {
		end = i
	}
	for _, a := range args[2:end] {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	idx := 2
	set := "defaults"
	explicit := false
	for i, a := range args[2:end] {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			set = a[1:]
			idx += i
			explicit = true
			break
		}
	}

	out := slices.Clone(args)
	if explicit {
		out = slices.Delete(out, idx, idx+1)
	}

	setArgs, err := config.GetStringSlice(args[1] + "." + set)
	if err != nil && explicit {
		log.Warnf("argument set @%s is not defined for %s", set, args[1])
	}

	var parts []string
	for _, arg := range setArgs {
		parts = append(parts, strings.Fields(arg)...)
	}
	out = slices.Insert(out, idx, parts...)

	log.Debugf("idx=%d, set=%s, args=%v", idx, set, out)
	return out
}
