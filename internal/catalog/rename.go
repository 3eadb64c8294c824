package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"qrsite/internal/fileutil"
	"qrsite/internal/logging"
	"qrsite/internal/photo"
)

// RenamedExt is the extension every renamed photo gets.
const RenamedExt = ".jpeg"

// Move is one planned rename. Unchanged moves already carry their target
// name; skipped moves name the reason in Skip and have no target.
type Move struct {
	From   string
	To     string
	Taken  time.Time
	Source photo.DateSource
	Skip   string
}

// Unchanged reports whether the file already has its target name.
func (m Move) Unchanged() bool {
	return m.From == m.To
}

// Pending reports whether ApplyRenames would touch the file.
func (m Move) Pending() bool {
	return m.Skip == "" && !m.Unchanged()
}

// PlanRenames names every image in dir after its shot time. Targets that
// collide with existing files or earlier targets get a "-N" suffix.
func PlanRenames(dir string, recursive bool) ([]Move, error) {
	files, err := photo.List(dir, recursive)
	if err != nil {
		return nil, err
	}

	planned := make(map[string]struct{}, len(files))
	moves := make([]Move, 0, len(files))
	for _, path := range files {
		if !photo.Decodable(path) {
			moves = append(moves, Move{From: path, Skip: "cannot decode " + filepath.Ext(path)})
			continue
		}
		taken, source, err := photo.ShotTime(path)
		if err != nil {
			return nil, fmt.Errorf("shot time of %s: %w", filepath.Base(path), err)
		}
		want := filepath.Join(filepath.Dir(path), taken.Format(photo.StampLayout)+RenamedExt)
		target := fileutil.UniquePathFunc(want, func(candidate string) bool {
			if _, ok := planned[candidate]; ok {
				return true
			}
			if candidate == path {
				return false
			}
			_, err := os.Lstat(candidate)
			return err == nil
		})
		planned[target] = struct{}{}
		moves = append(moves, Move{From: path, To: target, Taken: taken, Source: source})
	}
	return moves, nil
}

// ApplyRenames re-encodes each planned photo as JPEG under its new name,
// stamps it with the shot time and removes the source. Files that already
// carry their name are left alone.
func ApplyRenames(moves []Move, quality int, logger *slog.Logger) (int, error) {
	logger = logging.NewComponentLogger(logger, "rename")
	done := 0
	for _, m := range moves {
		if !m.Pending() {
			continue
		}
		if err := photo.ConvertJPEG(m.From, m.To, quality); err != nil {
			return done, fmt.Errorf("convert %s: %w", filepath.Base(m.From), err)
		}
		// Converted files carry no EXIF block; the modification time keeps the date.
		if err := os.Chtimes(m.To, m.Taken, m.Taken); err != nil {
			return done, fmt.Errorf("set time of %s: %w", filepath.Base(m.To), err)
		}
		if err := os.Remove(m.From); err != nil {
			return done, fmt.Errorf("remove %s: %w", filepath.Base(m.From), err)
		}
		logger.Debug("photo renamed",
			logging.String("from", m.From),
			logging.String("to", m.To),
			logging.String("date_source", string(m.Source)),
		)
		done++
	}
	logger.Info("photos renamed", logging.Int("renamed", done), logging.Int("planned", len(moves)))
	return done, nil
}
