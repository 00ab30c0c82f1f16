// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
)

// bashCompletionTemplate provides command and flag completion for bash.
const bashCompletionTemplate = `#!/bin/bash

# Bash completion script for SDG (Synthetic Document Generator)
# Installation:
#   source <(sdg completion bash)
#   Or add to ~/.bashrc:
#   echo 'source <(sdg completion bash)' >> ~/.bashrc

_sdg_completion() {
    local cur prev commands
    commands="init generate validate db completion"

    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Global flags
    if [[ ${cur} == -* && $COMP_CWORD -eq 1 ]] ; then
        COMPREPLY=( $(compgen -W "--version --config --json --no-color -q" -- ${cur}) )
        return 0
    fi

    # First argument: complete commands
    if [ $COMP_CWORD -eq 1 ]; then
        COMPREPLY=( $(compgen -W "${commands}" -- ${cur}) )
        return 0
    fi

    local cmd="${COMP_WORDS[1]}"
    case "${cmd}" in
        generate)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--output-dir --num-files --formats --credential-types --regex-db --topics --language --embed-strategy --batch-size --seed --min-credentials --max-credentials --neural-content --neural-credentials --llm-model --llm-provider --ultra-fast --process-isolation --max-workers --memory-limit --debug --metrics-addr" -- ${cur}) )
            fi
            ;;
        validate)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--file --regex-db --verbose" -- ${cur}) )
            fi
            ;;
        db)
            if [ $COMP_CWORD -eq 2 ]; then
                COMPREPLY=( $(compgen -W "list add" -- ${cur}) )
            elif [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--db --type --regex --description --generator --out" -- ${cur}) )
            fi
            ;;
        init)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--force --yes --output-dir --regex-db --llm-provider --llm-model" -- ${cur}) )
            fi
            ;;
        completion)
            if [ $COMP_CWORD -eq 2 ]; then
                COMPREPLY=( $(compgen -W "bash zsh fish" -- ${cur}) )
            fi
            ;;
    esac
}

complete -F _sdg_completion sdg
`

// zshCompletionTemplate provides command and flag completion for zsh.
const zshCompletionTemplate = `#compdef sdg

# Zsh completion script for SDG (Synthetic Document Generator)
# Installation:
#   1. Ensure compinit is loaded (add to ~/.zshrc if not present):
#      autoload -U compinit; compinit
#   2. Save this script to a directory in your fpath:
#      sdg completion zsh > "${fpath[1]}/_sdg"
#   3. Reload completions:
#      rm -f ~/.zcompdump; compinit

_sdg() {
    local -a commands
    commands=(
        'init:Create .sdg/config.yaml configuration'
        'generate:Generate a batch of synthetic documents'
        'validate:Scan a file for credential patterns'
        'db:Inspect or extend the pattern database'
        'completion:Generate shell completion script'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi

    case "${words[2]}" in
        generate)
            _arguments \
                '--output-dir[Output directory]:dir:_files -/' \
                '--num-files[Number of files]:count:' \
                '--formats[Output formats]:formats:' \
                '--credential-types[Credential type ids]:types:' \
                '--regex-db[Pattern database JSON]:file:_files' \
                '--topics[Document topics]:topics:' \
                '--language[Language codes]:lang:(en fr es de it pt nl tr zh ja)' \
                '--embed-strategy[Placement]:strategy:(random metadata body)' \
                '--batch-size[Files per batch]:size:' \
                '--seed[RNG seed]:seed:' \
                '--neural-content[Use the LLM for content]' \
                '--debug[Debug logging]'
            ;;
        validate)
            _arguments \
                '--file[File to scan]:file:_files' \
                '--regex-db[Pattern database JSON]:file:_files' \
                '--verbose[Print matched values]'
            ;;
        db)
            if (( CURRENT == 3 )); then
                _values 'subcommand' 'list' 'add'
            fi
            ;;
        completion)
            _values 'shell' 'bash' 'zsh' 'fish'
            ;;
    esac
}

_sdg
`

// fishCompletionTemplate provides command and flag completion for fish.
const fishCompletionTemplate = `# Fish completion script for SDG (Synthetic Document Generator)
# Installation:
#   sdg completion fish > ~/.config/fish/completions/sdg.fish

complete -c sdg -f

complete -c sdg -n '__fish_use_subcommand' -a init -d 'Create .sdg/config.yaml configuration'
complete -c sdg -n '__fish_use_subcommand' -a generate -d 'Generate a batch of synthetic documents'
complete -c sdg -n '__fish_use_subcommand' -a validate -d 'Scan a file for credential patterns'
complete -c sdg -n '__fish_use_subcommand' -a db -d 'Inspect or extend the pattern database'
complete -c sdg -n '__fish_use_subcommand' -a completion -d 'Generate shell completion script'

complete -c sdg -n '__fish_seen_subcommand_from generate' -l num-files -d 'Number of files'
complete -c sdg -n '__fish_seen_subcommand_from generate' -l formats -d 'Output formats'
complete -c sdg -n '__fish_seen_subcommand_from generate' -l credential-types -d 'Credential type ids'
complete -c sdg -n '__fish_seen_subcommand_from generate' -l topics -d 'Document topics'
complete -c sdg -n '__fish_seen_subcommand_from generate' -l language -d 'Language codes' -a 'en fr es de it pt nl tr zh ja'
complete -c sdg -n '__fish_seen_subcommand_from generate' -l embed-strategy -d 'Placement' -a 'random metadata body'
complete -c sdg -n '__fish_seen_subcommand_from generate' -l seed -d 'RNG seed'
complete -c sdg -n '__fish_seen_subcommand_from validate' -l file -d 'File to scan'
complete -c sdg -n '__fish_seen_subcommand_from db' -a 'list add'
complete -c sdg -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish'
`

// runCompletion executes the 'completion' CLI command.
func runCompletion(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: sdg completion <bash|zsh|fish>")
		os.Exit(1)
	}

	switch args[0] {
	case "bash":
		fmt.Print(bashCompletionTemplate)
	case "zsh":
		fmt.Print(zshCompletionTemplate)
	case "fish":
		fmt.Print(fishCompletionTemplate)
	default:
		fmt.Fprintf(os.Stderr, "Unsupported shell: %s (expected bash, zsh, or fish)\n", args[0])
		os.Exit(1)
	}
}
