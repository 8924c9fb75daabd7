package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"rinkfeed/internal/services/backfill/domain"
)

// dirArchive writes <dir>/<season label>/<gamePk>-pbp.json
type dirArchive struct{ dir string }

// NewArchive returns nil for an empty dir so the service skips the step
func NewArchive(dir string) domain.Archive {
	if dir == "" {
		return nil
	}
	return &dirArchive{dir: dir}
}

// ArchiveName is the file name the combine command also uses
func ArchiveName(g domain.GameRef) string { return fmt.Sprintf("%d-pbp.json", g.GamePk()) }

func (a *dirArchive) Write(g domain.GameRef, feed []byte) error {
	dir := filepath.Join(a.dir, g.SeasonLabel())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, ArchiveName(g))
	tmp := path + ".part"
	if err := os.WriteFile(tmp, feed, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
