// Package backup makes timestamped copies of the SQLite database file
// and keeps a bounded history of them.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	prefix = "publisher_backup_"
	suffix = ".db"

	// keep the newest this many backups, delete the rest
	keep = 10
)

type Manager struct {
	DBPath string
	Dir    string
}

func NewManager(dbPath, dir string) *Manager {
	return &Manager{DBPath: dbPath, Dir: dir}
}

// Entry describes one stored backup file.
type Entry struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Create copies the database file into the backup directory and rotates
// old backups. Returns the new backup's file name.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	src, err := os.Open(m.DBPath)
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	defer src.Close()

	name := prefix + time.Now().Format("2006-01-02_15-04-05") + suffix
	path := filepath.Join(m.Dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("copy database: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close backup file: %w", err)
	}

	if err := m.rotate(); err != nil {
		return "", err
	}
	return name, nil
}

// List returns stored backups, newest first.
func (m *Manager) List() ([]Entry, error) {
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var out []Entry
	for _, e := range entries {
		if e.IsDir() || !IsBackupName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{
			Name:      e.Name(),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	// backup names embed their timestamp, so name order is time order
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

// Path resolves a backup name to its file path. False for anything that
// is not a plain backup file name.
func (m *Manager) Path(name string) (string, bool) {
	if !IsBackupName(name) {
		return "", false
	}
	return filepath.Join(m.Dir, name), true
}

// IsBackupName reports whether name is a file this package created.
// Rejects path separators, which also blocks traversal through the
// download endpoint.
func IsBackupName(name string) bool {
	return strings.HasPrefix(name, prefix) &&
		strings.HasSuffix(name, suffix) &&
		!strings.ContainsAny(name, `/\`) &&
		name == filepath.Base(name)
}

func (m *Manager) rotate() error {
	entries, err := m.List()
	if err != nil {
		return err
	}
	for _, e := range entries[min(keep, len(entries)):] {
		if err := os.Remove(filepath.Join(m.Dir, e.Name)); err != nil {
			return fmt.Errorf("rotate backup %s: %w", e.Name, err)
		}
	}
	return nil
}
