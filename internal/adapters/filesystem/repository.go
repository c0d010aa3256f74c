package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"kifunav/internal/domain"
	"kifunav/internal/ports"
)

// DefaultExtension marks already-parsed record documents
const DefaultExtension = ".kifu.json"

// Repository implements ports.RecordLoader and ports.PathResolver on
// top of a directory of parsed records
type Repository struct {
	root      string
	extension string
}

var (
	_ ports.RecordLoader = (*Repository)(nil)
	_ ports.PathResolver = (*Repository)(nil)
)

// NewRepository creates a new filesystem repository
func NewRepository(root, extension string) *Repository {
	if extension == "" {
		extension = DefaultExtension
	}
	return &Repository{root: ExpandHome(root), extension: extension}
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// Root returns the library directory
func (r *Repository) Root() string {
	return r.root
}

// ListRecords returns the absolute paths of all records under the root,
// sorted, skipping hidden directories
func (r *Repository) ListRecords() ([]string, error) {
	root, err := absolute(r.root)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // Skip unreadable entries
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(strings.ToLower(d.Name()), r.extension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk library: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// LoadRecord decodes a parsed record document
func (r *Repository) LoadRecord(path string) (*domain.ParsedRecord, error) {
	data, err := os.ReadFile(r.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	var record domain.ParsedRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", path, err)
	}
	return &record, nil
}

// SaveRecord writes a parsed record document, creating directories as needed
func (r *Repository) SaveRecord(path string, record domain.ParsedRecord) error {
	path = r.resolve(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Mtime returns the modification time of a record
func (r *Repository) Mtime(path string) (int64, error) {
	info, err := os.Stat(r.resolve(path))
	if err != nil {
		return 0, err
	}
	return info.ModTime().UnixNano(), nil
}

// AbsolutePath returns the cleaned absolute path with symlinks resolved.
// Relative paths are taken from the library root, as in LoadRecord.
// Paths that do not exist yet are returned in absolute form unchanged.
func (r *Repository) AbsolutePath(path string) (string, error) {
	return absolute(r.resolve(path))
}

func absolute(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// resolve makes relative paths relative to the library root
func (r *Repository) resolve(path string) string {
	path = ExpandHome(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.root, path)
}
