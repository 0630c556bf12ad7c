package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-office2adoc/internal/config"
	"github.com/alnah/go-office2adoc/internal/fileutil"
	"github.com/alnah/go-office2adoc/internal/hints"
	"github.com/alnah/go-office2adoc/internal/imaging"
	"github.com/alnah/go-office2adoc/internal/process"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// versionTimeout bounds each "<tool> --version" probe.
const versionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status     string     `json:"status"`
	Pandoc     toolInfo   `json:"pandoc"`
	VectorTool toolInfo   `json:"vector_tool"`
	Env        envInfo    `json:"environment"`
	Output     outputInfo `json:"output"`
	Warnings   []string   `json:"warnings,omitempty"`
	Errors     []string   `json:"errors,omitempty"`
}

// toolInfo holds external tool detection results.
type toolInfo struct {
	Name    string `json:"name,omitempty"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Container bool   `json:"container"`
}

// outputInfo holds output directory check results.
type outputInfo struct {
	Dir      string `json:"dir"`
	Exists   bool   `json:"exists"`
	Writable bool   `json:"writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, "error:", err)
		return ExitUsage
	}
	if flags.common.noColor {
		env.Color = false
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		printError(env, err)
		return exitCodeFor(err)
	}

	result := runDoctor(ctx, cfg, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, cfg *config.Config, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			Container: hints.IsInContainer(),
		},
	}

	runner := env.Runner
	if runner == nil {
		runner = &process.ExecRunner{}
	}

	checkPandoc(ctx, cfg, env, runner, result)
	if !cfg.Images.Disabled {
		checkVectorTool(ctx, cfg, env, runner, result)
	}
	checkOutput(cfg, result)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	}
	return result
}

// checkPandoc locates pandoc and reads its version.
func checkPandoc(ctx context.Context, cfg *config.Config, env *Environment, runner process.Runner, result *doctorResult) {
	result.Pandoc.Name = cfg.Pandoc.Binary
	path, ok := env.LookPath(cfg.Pandoc.Binary)
	if !ok {
		result.Errors = append(result.Errors,
			fmt.Sprintf("pandoc not found (%s)%s", cfg.Pandoc.Binary, hints.ForPandocNotFound()))
		return
	}
	result.Pandoc.Found = true
	result.Pandoc.Path = path
	result.Pandoc.Version = toolVersion(ctx, runner, path)
	if result.Pandoc.Version == "" {
		result.Warnings = append(result.Warnings, "could not read pandoc version")
	}
}

// checkVectorTool locates the configured EMF/WMF converter, or the first
// known one on PATH.
func checkVectorTool(ctx context.Context, cfg *config.Config, env *Environment, runner process.Runner, result *doctorResult) {
	candidates := imaging.VectorTools
	if cfg.Images.VectorTool != "" {
		candidates = []string{cfg.Images.VectorTool}
	}
	for _, name := range candidates {
		path, ok := env.LookPath(name)
		if !ok {
			continue
		}
		result.VectorTool = toolInfo{
			Name:    name,
			Found:   true,
			Path:    path,
			Version: toolVersion(ctx, runner, path),
		}
		return
	}
	result.Warnings = append(result.Warnings,
		"no EMF/WMF converter found; those images will stay in their original format"+hints.ForVectorTool())
}

// checkOutput verifies the output root accepts new files. A missing root is
// only a warning: conversion creates it.
func checkOutput(cfg *config.Config, result *doctorResult) {
	dir := cfg.Output.Dir
	if dir == "" {
		dir = "."
	}
	result.Output.Dir = dir

	if !fileutil.DirExists(dir) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("output directory %s does not exist yet; it will be created", dir))
		return
	}
	result.Output.Exists = true
	if err := fileutil.CheckWritableDir(dir); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("output directory %s is not writable: %v%s", dir, err, hints.ForOutputDirectory()))
		return
	}
	result.Output.Writable = true
}

func toolVersion(ctx context.Context, runner process.Runner, path string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	return process.Version(ctx, runner, path, "--version")
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(env *Environment, r *doctorResult) {
	w := env.Stdout
	okTag := env.paint(color.FgGreen).Sprint("[OK]")
	warnTag := env.paint(color.FgYellow).Sprint("[WARN]")
	errTag := env.paint(color.FgRed, color.Bold).Sprint("[ERROR]")

	fmt.Fprintln(w, "office2adoc doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Pandoc")
	printTool(w, r.Pandoc, okTag, errTag+" Not found")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "EMF/WMF converter")
	printTool(w, r.VectorTool, okTag, warnTag+" Not found")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  %s Platform: %s/%s\n", okTag, r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  %s Container: detected\n", okTag)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Output")
	switch {
	case r.Output.Writable:
		fmt.Fprintf(w, "  %s %s: writable\n", okTag, r.Output.Dir)
	case !r.Output.Exists:
		fmt.Fprintf(w, "  %s %s: will be created\n", warnTag, r.Output.Dir)
	default:
		fmt.Fprintf(w, "  %s %s: not writable\n", errTag, r.Output.Dir)
	}
	fmt.Fprintln(w)

	printList(w, "Warnings:", warnTag, r.Warnings)
	printList(w, "Errors:", errTag, r.Errors)

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printTool(w io.Writer, t toolInfo, okTag, missing string) {
	if !t.Found {
		fmt.Fprintf(w, "  %s\n", missing)
		return
	}
	fmt.Fprintf(w, "  %s Found %s at %s\n", okTag, t.Name, t.Path)
	if t.Version != "" {
		fmt.Fprintf(w, "  %s Version: %s\n", okTag, t.Version)
	}
}

func printList(w io.Writer, title, tag string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", tag, item)
	}
	fmt.Fprintln(w)
}
