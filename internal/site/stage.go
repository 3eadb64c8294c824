package site

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"qrsite/internal/fileutil"
	"qrsite/internal/logging"
)

// NoJekyll disables Jekyll processing on GitHub Pages.
const NoJekyll = ".nojekyll"

// Stage collects the files of one build before they replace the output.
type Stage struct {
	output   string
	dir      string
	preserve []string
	files    map[string]struct{}
	done     bool
	logger   *slog.Logger
}

// NewStage creates an empty staging directory next to outputDir.
func NewStage(outputDir string, preserve []string, logger *slog.Logger) (*Stage, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	output := filepath.Clean(outputDir)
	parent := filepath.Dir(output)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("create output parent: %w", err)
	}
	dir, err := os.MkdirTemp(parent, "."+filepath.Base(output)+".staging-")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	if err := os.Chmod(dir, 0o755); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("chmod staging directory: %w", err)
	}
	return &Stage{
		output:   output,
		dir:      dir,
		preserve: append([]string(nil), preserve...),
		files:    make(map[string]struct{}),
		logger:   logger,
	}, nil
}

// Dir is the staging directory.
func (s *Stage) Dir() string {
	return s.dir
}

// Path maps a slash-separated site path into the staging directory.
func (s *Stage) Path(rel string) (string, error) {
	clean := filepath.FromSlash(strings.TrimPrefix(rel, "/"))
	full := filepath.Join(s.dir, clean)
	relCheck, err := filepath.Rel(s.dir, full)
	if err != nil || relCheck == "." || relCheck == ".." || strings.HasPrefix(relCheck, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("site path %q escapes the output directory", rel)
	}
	return full, nil
}

// WriteFile stores data at rel.
func (s *Stage) WriteFile(rel string, data []byte) error {
	return s.Write(rel, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Write streams the output of fn into rel.
func (s *Stage) Write(rel string, fn func(io.Writer) error) error {
	path, err := s.Path(rel)
	if err != nil {
		return err
	}
	if err := fileutil.EnsureParent(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", rel, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", rel, err)
	}
	s.record(rel)
	return nil
}

// Record marks rel as written by a helper that wrote to Path(rel) directly.
func (s *Stage) Record(rel string) {
	s.record(rel)
}

func (s *Stage) record(rel string) {
	s.files[filepath.ToSlash(strings.TrimPrefix(rel, "/"))] = struct{}{}
}

// Files lists the site paths written so far in lexical order.
func (s *Stage) Files() []string {
	out := make([]string, 0, len(s.files))
	for name := range s.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Commit replaces the output directory with the staged tree, carrying the
// preserved entries over from the previous output.
func (s *Stage) Commit() error {
	if s.done {
		return errors.New("stage already finished")
	}
	s.done = true

	moved, err := s.carryPreserved()
	if err != nil {
		s.restorePreserved(moved)
		_ = os.RemoveAll(s.dir)
		return err
	}

	backup := ""
	if _, err := os.Stat(s.output); err == nil {
		backup = s.dir + ".previous"
		if err := os.Rename(s.output, backup); err != nil {
			s.restorePreserved(moved)
			_ = os.RemoveAll(s.dir)
			return fmt.Errorf("move previous output aside: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		s.restorePreserved(moved)
		_ = os.RemoveAll(s.dir)
		return fmt.Errorf("stat output: %w", err)
	}

	if err := os.Rename(s.dir, s.output); err != nil {
		if backup != "" {
			_ = os.Rename(backup, s.output)
		}
		s.restorePreserved(moved)
		_ = os.RemoveAll(s.dir)
		return fmt.Errorf("swap output directory: %w", err)
	}

	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			s.logger.Warn("failed to remove previous output",
				logging.String("path", backup),
				logging.Error(err),
			)
		}
	}
	s.logger.Debug("output replaced",
		logging.String("output", s.output),
		logging.Int("files", len(s.files)),
		logging.Any("preserved", moved),
	)
	return nil
}

// Discard removes the staging directory. It is safe to call after Commit.
func (s *Stage) Discard() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("remove staging directory: %w", err)
	}
	return nil
}

func (s *Stage) carryPreserved() ([]string, error) {
	var moved []string
	for _, name := range s.preserve {
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return moved, fmt.Errorf("output.preserve entry %q must be a plain name", name)
		}
		from := filepath.Join(s.output, name)
		if _, err := os.Lstat(from); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return moved, fmt.Errorf("stat preserved %s: %w", name, err)
		}
		to := filepath.Join(s.dir, name)
		if err := os.RemoveAll(to); err != nil {
			return moved, fmt.Errorf("clear staged %s: %w", name, err)
		}
		if err := os.Rename(from, to); err != nil {
			return moved, fmt.Errorf("preserve %s: %w", name, err)
		}
		moved = append(moved, name)
	}
	return moved, nil
}

// restorePreserved moves preserved entries back into the old output after a
// failed swap.
func (s *Stage) restorePreserved(moved []string) {
	for _, name := range moved {
		from := filepath.Join(s.dir, name)
		to := filepath.Join(s.output, name)
		if err := os.Rename(from, to); err != nil {
			s.logger.Error("failed to restore preserved entry",
				logging.String("name", name),
				logging.Error(err),
			)
		}
	}
}
