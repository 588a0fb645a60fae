package convert

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"cssmangle/common"
	"cssmangle/config"
	"cssmangle/renamer"
	"cssmangle/state"
)

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *job) {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Rename.Mode = common.RenameModeMinimal
	cfg.Rename.Minify = true
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx, newJob(env, nil, logger)
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func writeZip(t *testing.T, name string, files map[string]string) {
	t.Helper()
	f, err := os.Create(name)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for n, content := range files {
		fw, err := w.Create(n)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", n, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s in zip: %v", n, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finalize zip: %v", err)
	}
}

func expectFile(t *testing.T, name, want string) {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("Expected output %s: %v", name, err)
	}
	if string(data) != want {
		t.Errorf("%s:\n got: %s\nwant: %s", filepath.Base(name), data, want)
	}
}

func TestProcess_NonExistentPath(t *testing.T) {
	ctx, j := setupTestEnv(t)

	err := process(ctx, "/nonexistent/path/file.css", t.TempDir(), j)
	if err == nil {
		t.Fatal("Expected error for non-existent path, got nil")
	}
	if !strings.Contains(err.Error(), "input source was not found") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, j := setupTestEnv(t)
	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()

	tmpDir := t.TempDir()
	if err := process(cancelCtx, tmpDir, tmpDir, j); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
}

func TestProcess_SingleFile(t *testing.T) {
	ctx, j := setupTestEnv(t)
	srcDir, dstDir := t.TempDir(), t.TempDir()

	src := filepath.Join(srcDir, "site.css")
	writeFile(t, src, ".btn { color: red; --size: 1px }")

	if err := process(ctx, src, dstDir, j); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if j.failed != nil {
		t.Fatalf("unexpected failures: %v", j.failed)
	}
	expectFile(t, filepath.Join(dstDir, "site.min.css"), ".a{color:red;--b:1px}")

	if j.processed != 1 || j.created != 2 {
		t.Errorf("processed %d, created %d", j.processed, j.created)
	}
	if got := j.tables.Selector[`\.btn`]; got != `\.a` {
		t.Errorf("selector table entry = %q", got)
	}
	if got := j.tables.Ident["size"]; got != "b" {
		t.Errorf("ident table entry = %q", got)
	}
}

func TestProcess_DirectorySharesTables(t *testing.T) {
	ctx, j := setupTestEnv(t)
	srcDir, dstDir := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(srcDir, "one.css"), ".btn{color:red}")
	writeFile(t, filepath.Join(srcDir, "sub", "two.css"), ".card, .btn { color: blue }")
	writeFile(t, filepath.Join(srcDir, "sub", "two.min.css"), ".old{}")
	writeFile(t, filepath.Join(srcDir, "notes.txt"), "not a stylesheet")

	if err := process(ctx, srcDir, dstDir, j); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if j.failed != nil {
		t.Fatalf("unexpected failures: %v", j.failed)
	}

	expectFile(t, filepath.Join(dstDir, "one.min.css"), ".a{color:red}")
	expectFile(t, filepath.Join(dstDir, "sub", "two.min.css"), ".b,.a{color:blue}")
	if j.processed != 2 {
		t.Errorf("expected 2 stylesheets, got %d", j.processed)
	}
	if _, ok := j.tables.Selector[`\.old`]; ok {
		t.Error("previous output must not be processed")
	}
}

func TestProcess_NoDirs(t *testing.T) {
	ctx, j := setupTestEnv(t)
	j.env.NoDirs = true
	srcDir, dstDir := t.TempDir(), t.TempDir()

	writeFile(t, filepath.Join(srcDir, "a", "b", "deep.css"), "#main{}")

	if err := process(ctx, srcDir, dstDir, j); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	expectFile(t, filepath.Join(dstDir, "deep.min.css"), "#a{}")
}

func TestProcess_Archive(t *testing.T) {
	ctx, j := setupTestEnv(t)
	srcDir, dstDir := t.TempDir(), t.TempDir()

	zipPath := filepath.Join(srcDir, "styles.zip")
	writeZip(t, zipPath, map[string]string{
		"css/site.css":   ".x{}",
		"css/readme.txt": "text",
		"other/skip.css": ".y{}",
	})

	if err := process(ctx, filepath.Join(zipPath, "css"), dstDir, j); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if j.failed != nil {
		t.Fatalf("unexpected failures: %v", j.failed)
	}

	expectFile(t, filepath.Join(dstDir, "css", "site.min.css"), ".a{}")
	if _, err := os.Stat(filepath.Join(dstDir, "other")); !os.IsNotExist(err) {
		t.Error("files outside of requested archive path must be skipped")
	}
}

func TestProcess_ArchiveInDirectory(t *testing.T) {
	ctx, j := setupTestEnv(t)
	srcDir, dstDir := t.TempDir(), t.TempDir()

	writeZip(t, filepath.Join(srcDir, "pack", "styles.zip"), map[string]string{"site.css": ".x{}"})

	if err := process(ctx, srcDir, dstDir, j); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	expectFile(t, filepath.Join(dstDir, "pack", "site.min.css"), ".a{}")
}

func TestProcess_NotStylesheet(t *testing.T) {
	ctx, j := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "notes.txt")
	writeFile(t, src, "text")

	err := process(ctx, src, t.TempDir(), j)
	if err == nil || !strings.Contains(err.Error(), "not recognized as stylesheet") {
		t.Errorf("Expected recognition error, got %v", err)
	}
}

func TestProcess_ExistingOutput(t *testing.T) {
	ctx, j := setupTestEnv(t)
	srcDir, dstDir := t.TempDir(), t.TempDir()

	src := filepath.Join(srcDir, "site.css")
	writeFile(t, src, ".btn{}")
	out := filepath.Join(dstDir, "site.min.css")
	writeFile(t, out, "old")

	if err := process(ctx, src, dstDir, j); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if j.failed == nil || !strings.Contains(j.failed.Error(), "already exists") {
		t.Fatalf("Expected failure for existing output, got %v", j.failed)
	}
	if j.tables.Len() != 0 {
		t.Error("failed stylesheet must not change tables")
	}
	expectFile(t, out, "old")

	j.failed = nil
	j.env.Overwrite = true
	if err := process(ctx, src, dstDir, j); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if j.failed != nil {
		t.Fatalf("unexpected failures: %v", j.failed)
	}
	expectFile(t, out, ".a{}")
}

func TestProcess_Charset(t *testing.T) {
	ctx, j := setupTestEnv(t)
	srcDir, dstDir := t.TempDir(), t.TempDir()

	src := filepath.Join(srcDir, "legacy.css")
	writeFile(t, src, "@charset \"windows-1251\";.\xE0{}")

	if err := process(ctx, src, dstDir, j); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	expectFile(t, filepath.Join(dstDir, "legacy.min.css"), `@charset "UTF-8";.a{}`)
	if _, ok := j.tables.Selector[`\.а`]; !ok {
		t.Errorf("expected decoded name in tables, got %v", j.tables.Selector)
	}
}

func TestProcessStylesheet_BadStoredValue(t *testing.T) {
	ctx, j := setupTestEnv(t)
	j.tables.Selector[`\.a`] = `\.5`
	dstDir := t.TempDir()

	err := processStylesheet(ctx, []byte(".a{}"), "bad.css", dstDir, j)
	if err == nil || !strings.Contains(err.Error(), "is not a selector") {
		t.Fatalf("Expected stored value error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dstDir, "bad.min.css")); !os.IsNotExist(err) {
		t.Error("no output expected for failed stylesheet")
	}
}

func TestTablesPersistence(t *testing.T) {
	ctx, j := setupTestEnv(t)
	srcDir, dstDir := t.TempDir(), t.TempDir()
	path := filepath.Join(t.TempDir(), "tables.json")

	tables, err := loadTables(path, j.env, j.log)
	if err != nil {
		t.Fatalf("loadTables() error = %v", err)
	}
	if tables.Len() != 0 {
		t.Fatalf("expected empty tables, got %d entries", tables.Len())
	}
	j.tables = tables

	writeFile(t, filepath.Join(srcDir, "site.css"), ".btn{}")
	if err := process(ctx, srcDir, dstDir, j); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if err := saveTables(path, j); err != nil {
		t.Fatalf("saveTables() error = %v", err)
	}

	loaded, err := loadTables(path, j.env, j.log)
	if err != nil {
		t.Fatalf("loadTables() error = %v", err)
	}
	if got := loaded.Selector[`\.btn`]; got != `\.a` {
		t.Errorf("persisted entry = %q, want %q", got, `\.a`)
	}

	// second run in different mode keeps names
	_, j2 := setupTestEnv(t)
	j2.opts.Mode = common.RenameModeHash
	j2.tables = loaded
	if err := processStylesheet(ctx, []byte(".btn{}"), "again.css", dstDir, j2); err != nil {
		t.Fatalf("processStylesheet() error = %v", err)
	}
	expectFile(t, filepath.Join(dstDir, "again.min.css"), ".a{}")
}

func TestLoadTables_Invalid(t *testing.T) {
	_, j := setupTestEnv(t)
	path := filepath.Join(t.TempDir(), "tables.json")
	writeFile(t, path, `{"selector": {".a": 1}}`)

	_, err := loadTables(path, j.env, j.log)
	var target *renamer.TableError
	if !errors.As(err, &target) {
		t.Errorf("Expected TableError, got %v", err)
	}
}

func TestApplyFlags(t *testing.T) {
	run := func(args ...string) (config.RenameConfig, error) {
		cfg := config.RenameConfig{Mode: common.RenameModeHash, Prefix: "keep", Minify: true}
		cmd := &cli.Command{
			Name: "rename",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "mode"},
				&cli.Uint32Flag{Name: "seed"},
				&cli.StringFlag{Name: "prefix"},
				&cli.StringFlag{Name: "suffix"},
				&cli.StringFlag{Name: "debug-symbol"},
				&cli.StringFlag{Name: "tables"},
				&cli.BoolFlag{Name: "minify"},
			},
			Action: func(_ context.Context, cmd *cli.Command) error {
				return applyFlags(cmd, &cfg)
			},
		}
		err := cmd.Run(context.Background(), append([]string{"rename"}, args...))
		return cfg, err
	}

	cfg, err := run("--mode", "debug", "--seed", "42", "--suffix", "-x", "--minify=false", "--tables", "t.json")
	if err != nil {
		t.Fatalf("applyFlags() error = %v", err)
	}
	if cfg.Mode != common.RenameModeDebug || cfg.Seed != 42 || cfg.Suffix != "-x" || cfg.Minify {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Prefix != "keep" {
		t.Errorf("unset flag must keep configuration value, got %q", cfg.Prefix)
	}
	if !filepath.IsAbs(cfg.TablesPath) || filepath.Base(cfg.TablesPath) != "t.json" {
		t.Errorf("tables path = %q", cfg.TablesPath)
	}

	if _, err := run("--mode", "bogus"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}
