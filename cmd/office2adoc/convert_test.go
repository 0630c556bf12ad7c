package main

// Notes:
// - Conversions run against fakePandoc with -d pointing at a temp directory;
//   the converter runs pandoc from the absolute output root, so the fake
//   resolves -o against the same directory
// - XLSX inputs are real workbooks written by excelize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	office2adoc "github.com/alnah/go-office2adoc"
	"github.com/alnah/go-office2adoc/internal/config"
)

const fakeAdoc = "Table of Contents\n\n* Intro\n\n== Intro\n\nNote: check the numbers\n"

func writeWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetRow("Sheet1", "A1", &[]any{"Region", "Total"}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Sheet1", "A2", &[]any{"North", 42}); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// TestRunConvert
// ---------------------------------------------------------------------------

func TestRunConvert(t *testing.T) {
	t.Parallel()

	t.Run("single docx", func(t *testing.T) {
		t.Parallel()

		in := setupTestDir(t, map[string]string{"report.docx": "PK"})
		out := t.TempDir()
		env, stdout, _ := testEnv(&fakePandoc{root: out, content: fakeAdoc})

		err := runConvert(context.Background(), []string{filepath.Join(in, "report.docx"), "-d", out, "--no-images"}, env)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		adoc := filepath.Join(out, "report", "report.adoc")
		got := readOutput(t, adoc)
		if strings.Contains(got, "Table of Contents") {
			t.Errorf("boilerplate not stripped:\n%s", got)
		}
		if !strings.Contains(got, "====\nNote: check the numbers\n====") {
			t.Errorf("note not recolored:\n%s", got)
		}
		if !strings.Contains(stdout.String(), "Created "+adoc) {
			t.Errorf("stdout = %q, want Created line", stdout.String())
		}
		if _, err := os.Stat(filepath.Join(out, "report", "report_no_format.adoc")); !os.IsNotExist(err) {
			t.Errorf("intermediate not removed: %v", err)
		}
	})

	t.Run("output name and keep intermediate", func(t *testing.T) {
		t.Parallel()

		in := setupTestDir(t, map[string]string{"report.docx": "PK"})
		out := t.TempDir()
		env, _, _ := testEnv(&fakePandoc{root: out, content: fakeAdoc})

		args := []string{"-i", filepath.Join(in, "report.docx"), "-o", "final", "-d", out, "--keep-intermediate", "--no-images"}
		if err := runConvert(context.Background(), args, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, name := range []string{"final.adoc", "final_no_format.adoc"} {
			if _, err := os.Stat(filepath.Join(out, "final", name)); err != nil {
				t.Errorf("missing %s: %v", name, err)
			}
		}
	})

	t.Run("xlsx workbook", func(t *testing.T) {
		t.Parallel()

		in := filepath.Join(t.TempDir(), "sales.xlsx")
		writeWorkbook(t, in)
		out := t.TempDir()
		env, _, _ := testEnv(nil)

		if err := runConvert(context.Background(), []string{in, "-d", out, "--no-images"}, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := readOutput(t, filepath.Join(out, "sales", "sales.adoc"))
		for _, want := range []string{"== Sheet1", "|Region |Total", "|North |42"} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q\n%s", want, got)
			}
		}
	})

	t.Run("directory batch prints summary", func(t *testing.T) {
		t.Parallel()

		in := setupTestDir(t, map[string]string{"a.docx": "PK", "b.docx": "PK", "~$a.docx": "lock"})
		out := t.TempDir()
		env, stdout, _ := testEnv(&fakePandoc{root: out, content: fakeAdoc})

		if err := runConvert(context.Background(), []string{in, "-d", out, "--no-images", "-w", "2"}, env); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
			t.Errorf("stdout = %q, want summary", stdout.String())
		}
		for _, stem := range []string{"a", "b"} {
			if _, err := os.Stat(filepath.Join(out, stem, stem+".adoc")); err != nil {
				t.Errorf("missing output for %s: %v", stem, err)
			}
		}
	})

	t.Run("batch failures counted", func(t *testing.T) {
		t.Parallel()

		in := setupTestDir(t, map[string]string{"a.docx": "PK", "b.docx": "PK"})
		out := t.TempDir()
		env, _, stderr := testEnv(&fakePandoc{root: out, err: errors.New("exit status 1")})

		err := runConvert(context.Background(), []string{in, "-d", out, "--no-images"}, env)
		if !errors.Is(err, ErrConversionsFailed) {
			t.Fatalf("error = %v, want ErrConversionsFailed", err)
		}
		if !strings.Contains(err.Error(), "2 of 2") {
			t.Errorf("error = %q, want count", err)
		}
		if strings.Count(stderr.String(), "FAILED") != 2 {
			t.Errorf("stderr = %q, want two FAILED lines", stderr.String())
		}
	})

	tests := []struct {
		name    string
		args    func(t *testing.T) []string
		wantErr error
	}{
		{
			name:    "no input",
			args:    func(*testing.T) []string { return nil },
			wantErr: ErrNoInput,
		},
		{
			name:    "unknown flag",
			args:    func(*testing.T) []string { return []string{"--pdf"} },
			wantErr: ErrUsage,
		},
		{
			name:    "quiet with verbose",
			args:    func(*testing.T) []string { return []string{"-q", "-v", "x.docx"} },
			wantErr: ErrUsage,
		},
		{
			name: "output name with directory",
			args: func(t *testing.T) []string {
				return []string{setupTestDir(t, map[string]string{"a.docx": "PK"}), "-o", "x"}
			},
			wantErr: ErrStemWithDirectory,
		},
		{
			name: "unsupported file",
			args: func(t *testing.T) []string {
				return []string{filepath.Join(setupTestDir(t, map[string]string{"a.pdf": ""}), "a.pdf")}
			},
			wantErr: office2adoc.ErrUnsupportedInput,
		},
		{
			name: "missing config",
			args: func(t *testing.T) []string {
				return []string{"-c", filepath.Join(t.TempDir(), "none.yaml"), "x.docx"}
			},
			wantErr: config.ErrConfigNotFound,
		},
		{
			name: "documents sharing a stem",
			args: func(t *testing.T) []string {
				return []string{setupTestDir(t, map[string]string{"a.docx": "PK", "A.xlsx": "PK"})}
			},
			wantErr: ErrDuplicateStem,
		},
		{
			name: "negative workers",
			args: func(t *testing.T) []string {
				return []string{setupTestDir(t, map[string]string{"a.docx": "PK"}), "-w", "-1"}
			},
			wantErr: ErrUsage,
		},
		{
			name:    "invalid timeout",
			args:    func(*testing.T) []string { return []string{"-t", "soon", "x.docx"} },
			wantErr: config.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _, _ := testEnv(nil)
			err := runConvert(context.Background(), tt.args(t), env)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("help is not an error", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv(nil)
		if err := runConvert(context.Background(), []string{"--help"}, env); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !strings.Contains(stderr.String(), "Usage: office2adoc convert") {
			t.Errorf("usage not printed: %q", stderr.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestConvertAll
// ---------------------------------------------------------------------------

// stubConverter fails inputs listed in failures and succeeds otherwise.
type stubConverter struct {
	failures map[string]error
}

func (s *stubConverter) Convert(_ context.Context, in office2adoc.Input) (*office2adoc.Result, error) {
	if err, ok := s.failures[in.Path]; ok {
		return nil, err
	}
	return &office2adoc.Result{Output: in.Path + ".adoc"}, nil
}

func TestConvertAll(t *testing.T) {
	t.Parallel()

	files := []string{"a.docx", "b.docx", "c.xlsx", "d.docx", "e.xlsx"}
	boom := errors.New("boom")

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		for _, workers := range []int{0, 1, 3, 10} {
			conv := &stubConverter{failures: map[string]error{"c.xlsx": boom}}
			results := convertAll(context.Background(), conv, files, "", workers)

			if len(results) != len(files) {
				t.Fatalf("workers=%d: got %d results, want %d", workers, len(results), len(files))
			}
			for i, r := range results {
				if r.InputPath != files[i] {
					t.Errorf("workers=%d: results[%d] = %s, want %s", workers, i, r.InputPath, files[i])
				}
				if wantErr := files[i] == "c.xlsx"; (r.Err != nil) != wantErr {
					t.Errorf("workers=%d: %s error = %v", workers, r.InputPath, r.Err)
				}
			}
		}
	})

	t.Run("canceled context marks every file", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results := convertAll(ctx, &stubConverter{}, files, "", 2)
		for _, r := range results {
			if !errors.Is(r.Err, context.Canceled) {
				t.Errorf("%s error = %v, want context.Canceled", r.InputPath, r.Err)
			}
		}
	})

	t.Run("no files", func(t *testing.T) {
		t.Parallel()

		if got := convertAll(context.Background(), &stubConverter{}, nil, "", 0); got != nil {
			t.Errorf("convertAll() = %v, want nil", got)
		}
	})
}

func TestCheckDistinctStems(t *testing.T) {
	t.Parallel()

	if err := checkDistinctStems([]string{"/in/a.docx", "/in/b.docx", "/in/c.xlsx"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := checkDistinctStems([]string{"/in/Report.docx", "/in/report.xlsx"})
	if !errors.Is(err, ErrDuplicateStem) {
		t.Fatalf("error = %v, want ErrDuplicateStem", err)
	}
	if !strings.Contains(err.Error(), "Report.docx and report.xlsx") {
		t.Errorf("error = %q, want both names", err)
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags convertFlags
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name:  "empty flags keep config",
			flags: convertFlags{},
			check: func(t *testing.T, cfg *config.Config) {
				if diff := cmp.Diff(config.DefaultConfig(), cfg); diff != "" {
					t.Errorf("config changed (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "values override",
			flags: convertFlags{
				outputDir:        "out",
				pandoc:           "/opt/pandoc",
				timeout:          "1m",
				keepIntermediate: true,
				reviewMarkers:    true,
				images:           imageFlags{vectorTool: "magick", disabled: true},
				log:              logFlags{file: "x.log", level: "error"},
			},
			check: func(t *testing.T, cfg *config.Config) {
				want := config.DefaultConfig()
				want.Output.Dir = "out"
				want.Pandoc.Binary = "/opt/pandoc"
				want.Pandoc.Timeout = "1m"
				want.Output.KeepIntermediate = true
				want.Pipeline.ReviewMarkers = true
				want.Images = config.ImagesConfig{VectorTool: "magick", Disabled: true}
				want.Log = config.LogConfig{File: "x.log", Level: "error"}
				if diff := cmp.Diff(want, cfg); diff != "" {
					t.Errorf("config mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:  "verbose wins over log level",
			flags: convertFlags{common: commonFlags{verbose: true}, log: logFlags{level: "error"}},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Log.Level != "debug" {
					t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
				}
			},
		},
		{
			name:  "quiet",
			flags: convertFlags{common: commonFlags{quiet: true}},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Log.Level != "warn" {
					t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.DefaultConfig()
			mergeFlags(&tt.flags, cfg)
			tt.check(t, cfg)
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveInputPath
// ---------------------------------------------------------------------------

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flag    string
		args    []string
		want    string
		wantErr error
	}{
		{"flag", "a.docx", nil, "a.docx", nil},
		{"positional", "", []string{"b.xlsx"}, "b.xlsx", nil},
		{"both", "a.docx", []string{"b.xlsx"}, "", ErrUsage},
		{"two positional", "", []string{"a", "b"}, "", ErrUsage},
		{"none", "", nil, "", ErrNoInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveInputPath(tt.flag, tt.args)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveInputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDescribe
// ---------------------------------------------------------------------------

func TestDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		res  office2adoc.Result
		want string
	}{
		{"docx", office2adoc.Result{Kind: office2adoc.KindDOCX, ImagesRecoded: 2}, "2 images recoded"},
		{"docx with failures", office2adoc.Result{Kind: office2adoc.KindDOCX, ImagesRecoded: 1, ImagesFailed: 1}, "1 images recoded, 1 failed"},
		{"xlsx", office2adoc.Result{Kind: office2adoc.KindXLSX, Sheets: 3, Images: 4}, "3 sheets, 4 images, 0 images recoded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := describe(&tt.res); got != tt.want {
				t.Errorf("describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
