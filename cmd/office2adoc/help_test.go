package main

import (
	"strings"
	"testing"
)

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{"no command", nil, ExitSuccess, "Commands:", ""},
		{"convert", []string{"convert"}, ExitSuccess, "Usage: office2adoc convert", ""},
		{"doctor", []string{"doctor"}, ExitSuccess, "Usage: office2adoc doctor", ""},
		{"config", []string{"config"}, ExitSuccess, "Usage: office2adoc config", ""},
		{"version", []string{"version"}, ExitSuccess, "Usage: office2adoc version", ""},
		{"completion", []string{"completion"}, ExitSuccess, "Usage: office2adoc completion", ""},
		{"help", []string{"help"}, ExitSuccess, "Usage: office2adoc help", ""},
		{"unknown", []string{"render"}, ExitUsage, "", "Unknown command: render"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, stdout, stderr := testEnv(nil)
			if code := runHelp(tt.args, env); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if tt.wantOut != "" && !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantOut)
			}
			if tt.wantErr != "" && !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantErr)
			}
		})
	}
}
