// Package convert implements "rename" command: it finds stylesheets in
// files, directories and zip archives and renames them sharing single set of
// conversion tables.
package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"cssmangle/archive"
	"cssmangle/common"
	"cssmangle/config"
	"cssmangle/css"
	"cssmangle/renamer"
	"cssmangle/state"
)

// job carries everything single run needs. Stylesheets are processed one by
// one, each one starts with tables produced by previous one.
type job struct {
	env     *state.LocalEnv
	log     *zap.Logger
	renamer *renamer.Renamer
	opts    renamer.Options
	tables  *renamer.ConversionTables

	processed int
	created   int
	failed    error
}

func newJob(env *state.LocalEnv, tables *renamer.ConversionTables, log *zap.Logger) *job {
	cfg := &env.Cfg.Rename
	if tables == nil {
		tables = renamer.NewConversionTables()
	}
	return &job{
		env:     env,
		log:     log,
		renamer: renamer.New(log),
		opts: renamer.Options{
			Mode:        cfg.Mode,
			DebugSymbol: cfg.DebugSymbol,
			Prefix:      cfg.Prefix,
			Suffix:      cfg.Suffix,
			Seed:        cfg.Seed,
			Minify:      cfg.Minify,
		},
		tables: tables,
	}
}

// fail records failure of a single stylesheet, processing continues.
func (j *job) fail(src string, err error) {
	j.log.Error("Unable to process stylesheet", zap.String("file", src), zap.Error(err))
	j.failed = multierr.Append(j.failed, fmt.Errorf("%s: %w", src, err))
}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("rename")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if err := applyFlags(cmd, &env.Cfg.Rename); err != nil {
		return err
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	tablesPath := env.Cfg.Rename.TablesPath
	tables, err := loadTables(tablesPath, env, log)
	if err != nil {
		return err
	}

	j := newJob(env, tables, log)

	log.Info("Processing starting",
		zap.String("source", src),
		zap.String("destination", dst),
		zap.Stringer("mode", j.opts.Mode),
		zap.Int("table entries", j.tables.Len()))
	defer func(start time.Time) {
		log.Info("Processing completed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("stylesheets", j.processed),
			zap.Int("new names", j.created))
	}(time.Now())

	// tables are saved even when processing was interrupted, stylesheets
	// written so far refer to them
	err = multierr.Append(process(ctx, src, dst, j), saveTables(tablesPath, j))
	if j.failed != nil {
		err = multierr.Append(err, fmt.Errorf("some stylesheets were not processed: %w", j.failed))
	}
	return err
}

// applyFlags superimposes command line values on top of configuration.
func applyFlags(cmd *cli.Command, cfg *config.RenameConfig) (err error) {
	if cmd.IsSet("mode") {
		if cfg.Mode, err = common.ParseRenameMode(cmd.String("mode")); err != nil {
			return fmt.Errorf("bad renaming mode: %w", err)
		}
	}
	if cmd.IsSet("seed") {
		cfg.Seed = cmd.Uint32("seed")
	}
	if cmd.IsSet("prefix") {
		cfg.Prefix = cmd.String("prefix")
	}
	if cmd.IsSet("suffix") {
		cfg.Suffix = cmd.String("suffix")
	}
	if cmd.IsSet("debug-symbol") {
		cfg.DebugSymbol = cmd.String("debug-symbol")
	}
	if cmd.IsSet("tables") {
		if cfg.TablesPath, err = filepath.Abs(cmd.String("tables")); err != nil {
			return err
		}
	}
	if cmd.IsSet("minify") {
		cfg.Minify = cmd.Bool("minify")
	}
	return nil
}

// loadTables reads conversion tables which seed renaming. Missing file is
// not an error, it will be created when processing is done.
func loadTables(path string, env *state.LocalEnv, log *zap.Logger) (*renamer.ConversionTables, error) {
	if len(path) == 0 {
		log.Debug("Conversion tables are not persisted")
		return renamer.NewConversionTables(), nil
	}

	tables, err := renamer.LoadTablesIfExists(path)
	if errors.Is(err, renamer.ErrNoTables) {
		log.Info("Conversion tables not found, starting anew", zap.String("file", path))
		return tables, nil
	}
	if err != nil {
		return nil, err
	}

	log.Info("Conversion tables loaded", zap.String("file", path),
		zap.Int("selectors", len(tables.Selector)), zap.Int("idents", len(tables.Ident)))
	if env.Rpt != nil {
		if err := env.Rpt.StoreCopy("tables/input.json", path); err != nil {
			log.Warn("Unable to store conversion tables in debug report", zap.Error(err))
		}
	}
	return tables, nil
}

// saveTables writes grown conversion tables back.
func saveTables(path string, j *job) error {
	if j.env.Rpt != nil {
		var buf bytes.Buffer
		if _, err := j.tables.WriteTo(&buf); err == nil {
			j.env.Rpt.StoreData("tables/output.json", buf.Bytes())
		}
	}
	if len(path) == 0 {
		return nil
	}
	if err := renamer.SaveTables(path, j.tables); err != nil {
		return fmt.Errorf("unable to save conversion tables: %w", err)
	}
	j.log.Debug("Conversion tables saved", zap.String("file", path), zap.Int("entries", j.tables.Len()))
	return nil
}

// process determines the input type (directory, archive, or single file) and
// processes accordingly.
func process(ctx context.Context, src, dst string, j *job) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, j); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		arc, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if arc {
			// we need to look inside to see if path makes sense
			tail = filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			if err := processArchive(ctx, head, tail, "", dst, j); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if len(tail) == 0 && isStylesheet(head, j.env.Cfg.Rename.OutputExtension) {
			if data, err := os.ReadFile(head); err != nil {
				j.fail(head, err)
			} else if err := processStylesheet(ctx, data, filepath.Base(head), dst, j); err != nil {
				j.fail(head, err)
			}
			break
		}
		return fmt.Errorf("input was not recognized as stylesheet (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding stylesheets and archives and
// processes them.
func processDir(ctx context.Context, dir, dst string, j *job) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			j.log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			j.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		arc, err := isArchiveFile(path)
		if err != nil {
			j.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if arc {
			count++
			if err := processArchive(ctx, path, "", filepath.Dir(strings.TrimPrefix(path, dir)), dst, j); err != nil {
				j.fail(path, err)
			}
			return nil
		}

		if !isStylesheet(path, j.env.Cfg.Rename.OutputExtension) {
			j.log.Debug("Skipping file, not recognized as stylesheet or archive", zap.String("file", path))
			return nil
		}

		count++

		data, err := os.ReadFile(path)
		if err != nil {
			j.fail(path, err)
			return nil
		}

		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := processStylesheet(ctx, data, src, dst, j); err != nil {
			j.fail(path, err)
		}
		return nil
	})
}

// processArchive walks all files inside archive, finds stylesheets under
// "pathIn" and processes them.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, j *job) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			j.log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	outExt := j.env.Cfg.Rename.OutputExtension
	match := func(name string) bool {
		return isStylesheet(name, outExt)
	}

	return archive.Walk(path, pathIn, match, func(archive string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := f.FileHeader.Name
		if !isStylesheetInArchive(f, outExt) {
			j.log.Warn("Skipping file in archive, unsupported compression",
				zap.String("archive", archive), zap.String("file", name))
			return nil
		}

		count++

		data, err := readArchiveFile(f)
		if err != nil {
			j.fail(archive+":"+name, err)
			return nil
		}

		if err := processStylesheet(ctx, data, filepath.Join(pathOut, entryName(f, j)), dst, j); err != nil {
			j.fail(archive+":"+name, err)
		}
		return nil
	})
}

func readArchiveFile(f *zip.File) ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// entryName returns archive entry name, decoded with forced code page when
// necessary.
func entryName(f *zip.File, j *job) string {
	name := f.FileHeader.Name
	cp := j.env.CodePage
	if cp == nil || !f.FileHeader.NonUTF8 {
		return filepath.FromSlash(name)
	}
	n, err := cp.NewDecoder().String(name)
	if err != nil {
		cpName, _ := ianaindex.IANA.Name(cp)
		j.log.Warn("Unable to convert archive name from specified encoding",
			zap.String("charset", cpName), zap.String("path", name), zap.Error(err))
		return filepath.FromSlash(name)
	}
	return filepath.FromSlash(n)
}

// processStylesheet renames single stylesheet. "src" is part of the source
// path (always including file name) relative to the original path. When
// actual file was specified it will be just base file name without a path.
// When looking inside archive or directory it will be relative path inside
// archive or directory. "dst" is the destination directory.
func processStylesheet(ctx context.Context, data []byte, src, dst string, j *job) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	var outputName string

	j.log.Debug("Renaming starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			j.log.Error("Renaming ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("renaming panic: %v", r)
		} else if rerr == nil {
			j.log.Info("Stylesheet renamed", zap.String("from", src), zap.String("to", outputName), zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	data, charset, err := css.DecodeCharset(data)
	if err != nil {
		return err
	}
	if charset != "utf-8" {
		j.log.Debug("Stylesheet converted to UTF-8", zap.String("file", src), zap.String("charset", charset))
	}

	opts := j.opts
	opts.Tables = j.tables
	opts.Source = src

	res, err := j.renamer.Transform(data, opts)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		j.log.Warn("Stylesheet problem, text kept as is", zap.String("file", src), zap.String("problem", w))
	}

	outputName = buildOutputPath(src, dst, j.env)
	if err := prepareOutput(outputName, j); err != nil {
		return err
	}
	if err := os.WriteFile(outputName, res.CSS, 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	// only successfully written stylesheets contribute to tables
	j.tables = res.Tables
	j.created += res.Created
	j.processed++

	if j.env.Rpt != nil {
		j.env.Rpt.Store(filepath.ToSlash(filepath.Join("result", src)), outputName)
	}
	return nil
}

// prepareOutput makes sure output file could be written.
func prepareOutput(outputName string, j *job) error {
	if _, err := os.Stat(outputName); err == nil {
		if !j.env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		j.log.Warn("Overwriting existing file", zap.String("file", outputName))
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}
