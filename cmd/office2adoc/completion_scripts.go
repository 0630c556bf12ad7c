package main

import (
	"fmt"
	"io"
	"strings"
)

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer) error {
	commands := getCommands()
	var b strings.Builder

	fmt.Fprintf(&b, "# bash completion for %s\n", progName)
	fmt.Fprintf(&b, "_%s_completions() {\n", progName)
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    COMPREPLY=()\n\n")

	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") %s )\n",
		strings.Join(commandNames(commands), " "), bashFiles(inputPattern))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n")
	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		writeBashValueCases(&b, c.Flags)
		if len(c.Flags) > 0 {
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") )\n", bashFlagWords(c.Flags))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch {
		case c.FilePattern != "":
			fmt.Fprintf(&b, "        COMPREPLY=( %s )\n", bashFiles(c.FilePattern))
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") )\n", strings.Join(c.Args, " "))
		}
		b.WriteString("        ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "complete -o filenames -F _%s_completions %s\n", progName, progName)

	_, err := io.WriteString(w, b.String())
	return err
}

// writeBashValueCases completes the value of the flag in $prev.
func writeBashValueCases(b *strings.Builder, flags []flagDef) {
	var valued []flagDef
	for _, f := range flags {
		if f.takesValue() {
			valued = append(valued, f)
		}
	}
	if len(valued) == 0 {
		return
	}

	b.WriteString("        case \"$prev\" in\n")
	for _, f := range valued {
		names := "--" + f.Long
		if f.Short != "" {
			names = "-" + f.Short + "|" + names
		}
		fmt.Fprintf(b, "        %s)\n", names)
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(b, "            COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") )\n", strings.Join(f.Values, " "))
		case flagFile:
			fmt.Fprintf(b, "            COMPREPLY=( %s )\n", bashFiles(f.FileGlob))
		case flagDir:
			b.WriteString("            COMPREPLY=( $(compgen -d -- \"$cur\") )\n")
		}
		b.WriteString("            return\n")
		b.WriteString("            ;;\n")
	}
	b.WriteString("        esac\n")
}

// bashFiles completes directories and files matching a glob list.
func bashFiles(pattern string) string {
	var parts []string
	for _, g := range splitGlobs(pattern) {
		parts = append(parts, fmt.Sprintf("$(compgen -G \"${cur}%s\")", g))
	}
	parts = append(parts, "$(compgen -d -- \"$cur\")")
	return strings.Join(parts, " ")
}

func bashFlagWords(flags []flagDef) string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(w io.Writer) error {
	commands := getCommands()
	var b strings.Builder

	fmt.Fprintf(&b, "#compdef %s\n\n", progName)
	fmt.Fprintf(&b, "_%s() {\n", progName)
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshQuote(c.Desc))
	}
	b.WriteString("    )\n\n")

	b.WriteString("    if (( CURRENT == 2 )); then\n")
	fmt.Fprintf(&b, "        _describe -t commands '%s command' commands\n", progName)
	fmt.Fprintf(&b, "        _files -g '%s'\n", zshGlob(inputPattern))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    local cmd=$words[2]\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")

	b.WriteString("    case $cmd in\n")
	for _, c := range commands {
		var specs []string
		for _, f := range c.Flags {
			specs = append(specs, zshFlagSpec(f))
		}
		switch {
		case c.FilePattern != "":
			specs = append(specs, fmt.Sprintf("'*:input:_files -g \"%s\"'", zshGlob(c.FilePattern)))
		case len(c.Args) > 0:
			specs = append(specs, fmt.Sprintf("'1:%s:(%s)'", c.Name, strings.Join(c.Args, " ")))
		}
		if len(specs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        _arguments -s \\\n            ")
		b.WriteString(strings.Join(specs, " \\\n            "))
		b.WriteString("\n        ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "compdef _%s %s\n", progName, progName)

	_, err := io.WriteString(w, b.String())
	return err
}

// zshFlagSpec renders one _arguments option spec.
func zshFlagSpec(f flagDef) string {
	desc := zshQuote(f.Desc)
	desc = strings.NewReplacer("[", "\\[", "]", "\\]").Replace(desc)

	var value string
	switch f.Type {
	case flagBool:
	case flagEnum:
		value = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		value = fmt.Sprintf(":%s:_files -g \"%s\"", f.Long, zshGlob(f.FileGlob))
	case flagDir:
		value = fmt.Sprintf(":%s:_files -/", f.Long)
	default:
		value = fmt.Sprintf(":%s: ", f.Long)
	}

	if f.Short == "" {
		return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, value)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, value)
}

// zshGlob turns "*.docx,*.xlsx" into "*.(docx|xlsx)".
func zshGlob(pattern string) string {
	exts := globExtensions(pattern)
	if len(exts) == 1 {
		return "*." + exts[0]
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

// zshQuote escapes s for a single-quoted zsh word.
func zshQuote(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(w io.Writer) error {
	commands := getCommands()
	var b strings.Builder

	fmt.Fprintf(&b, "# fish completion for %s\n\n", progName)
	fmt.Fprintf(&b, "function __fish_%s_needs_command\n", progName)
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	fmt.Fprintf(&b, "function __fish_%s_using_command\n", progName)
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")

	fmt.Fprintf(&b, "complete -c %s -f\n", progName)
	for _, c := range commands {
		fmt.Fprintf(&b, "complete -c %s -n __fish_%s_needs_command -a %s -d '%s'\n",
			progName, progName, c.Name, fishQuote(c.Desc))
	}
	fmt.Fprintf(&b, "complete -c %s -n __fish_%s_needs_command -a '%s'\n",
		progName, progName, fishFiles(inputPattern))

	for _, c := range commands {
		cond := fmt.Sprintf("'__fish_%s_using_command %s'", progName, c.Name)
		b.WriteString("\n")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c %s -n %s -l %s", progName, cond, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			switch f.Type {
			case flagBool:
			case flagEnum:
				fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				fmt.Fprintf(&b, " -r -a '%s'", fishFiles(f.FileGlob))
			case flagDir:
				b.WriteString(" -r -a '(__fish_complete_directories)'")
			default:
				b.WriteString(" -x")
			}
			fmt.Fprintf(&b, " -d '%s'\n", fishQuote(f.Desc))
		}
		switch {
		case c.FilePattern != "":
			fmt.Fprintf(&b, "complete -c %s -n %s -a '%s'\n", progName, cond, fishFiles(c.FilePattern))
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c %s -n %s -x -a '%s'\n", progName, cond, strings.Join(c.Args, " "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// fishFiles completes files by suffix for a glob list.
func fishFiles(pattern string) string {
	var parts []string
	for _, ext := range globExtensions(pattern) {
		parts = append(parts, "(__fish_complete_suffix ."+ext+")")
	}
	return strings.Join(parts, " ")
}

// fishQuote escapes s for a single-quoted fish word.
func fishQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s)
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func generatePowerShell(w io.Writer) error {
	commands := getCommands()
	var b strings.Builder

	fmt.Fprintf(&b, "# powershell completion for %s\n", progName)
	fmt.Fprintf(&b, "Register-ArgumentCompleter -Native -CommandName %s -ScriptBlock {\n", progName)
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $words = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "        '%s' = '%s'\n", c.Name, psQuote(c.Desc))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $flags = @{\n")
	for _, c := range commands {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", c.Name, psList(strings.Fields(bashFlagWords(c.Flags))))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $values = @{\n")
	seen := map[string]bool{}
	for _, c := range commands {
		for _, f := range c.Flags {
			if f.Type != flagEnum || seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			fmt.Fprintf(&b, "        '--%s' = @(%s)\n", f.Long, psList(f.Values))
			if f.Short != "" {
				fmt.Fprintf(&b, "        '-%s' = @(%s)\n", f.Short, psList(f.Values))
			}
		}
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $positional = @{\n")
	for _, c := range commands {
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "        '%s' = @(%s)\n", c.Name, psList(c.Args))
		}
	}
	b.WriteString("    }\n\n")

	b.WriteString("    if ($words.Count -le 1 -or ($words.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	b.WriteString("        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")

	b.WriteString("    $cmd = $words[1]\n")
	b.WriteString("    $prev = if ($wordToComplete -eq '') { $words[-1] } else { $words[-2] }\n\n")

	b.WriteString("    if ($values.ContainsKey($prev)) {\n")
	b.WriteString("        $values[$prev] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")

	b.WriteString("    if ($wordToComplete -like '-*' -and $flags.ContainsKey($cmd)) {\n")
	b.WriteString("        $flags[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")

	b.WriteString("    if ($positional.ContainsKey($cmd)) {\n")
	b.WriteString("        $positional[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// psList renders a PowerShell array body of single-quoted strings.
func psList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, s := range items {
		quoted = append(quoted, "'"+psQuote(s)+"'")
	}
	return strings.Join(quoted, ", ")
}

// psQuote escapes s for a single-quoted PowerShell string.
func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
