// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/hookctl/internal/meta"
)

const bashCompletionScript = `# bash completion for hookctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_hookctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "md5 quote root list unpack store purge scratch completion --chdir -C --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t"

    case "$cmd" in
        list)
            local opts="$common --include --exclude"
            ;;
        store)
            local opts="$common --chop --full"
            ;;
        root)
            local opts="--marker -m"
            ;;
        unpack)
            local opts="--keep-partial"
            ;;
        purge)
            local opts="--hours --quiet -q"
            ;;
        scratch)
            local opts="--base --prefix --shell"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts=""
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--base" || "$prev" == "--chdir" || "$prev" == "-C" ]]; then
        COMPREPLY=( $(compgen -o dirnames -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    case "$cmd" in
        list|unpack)
            COMPREPLY=( $(compgen -f -- "$cur") )
            ;;
    esac
    return 0
}

complete -F _hookctl hookctl
`

const zshCompletionScript = `#compdef hookctl

_hookctl() {
  local -a cmds
  cmds=(
    'md5:hex MD5 digest of each argument'
    'quote:shell-escape arguments'
    'root:find the project root'
    'list:list archive entries'
    'unpack:unpack an archive into the store'
    'store:list unpacked archives'
    'purge:remove stale store entries'
    'scratch:run a command in a throwaway directory'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'hookctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    list)
      _arguments -C $common '*--include[glob to include]:glob' '*--exclude[glob to exclude]:glob' '1:archive:_files'
      ;;
    store)
      _arguments -C $common '--chop[chop common archive path prefix]' '--full[show full keys]'
      ;;
    root)
      _arguments -C '(-m --marker)'{-m,--marker}'[root marker]:marker'
      ;;
    unpack)
      _arguments -C '--keep-partial[keep partial entry on failure]' '1:archive:_files'
      ;;
    purge)
      _arguments -C '--hours[age in hours]:hours' '(-q --quiet)'{-q,--quiet}'[quiet]'
      ;;
    scratch)
      _arguments -C \
        '--base[parent directory]:dir:_directories' \
        '--prefix[directory name hint]:prefix' \
        '--shell[shell to run]:shell' \
        '*::command:_normal'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _hookctl hookctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	w := Writer(cmd)
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: hookctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "hookctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
