package main

import (
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/alnah/go-office2adoc/internal/process"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Color  bool // colored status words and log levels

	// LookPath finds external tools. Runner executes them; nil means os/exec.
	LookPath func(name string) (string, bool)
	Runner   process.Runner
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Color:    !color.NoColor,
		LookPath: process.LookPath,
	}
}

// paint returns a color printer honoring env.Color.
func (e *Environment) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if e.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
