package timeline

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

var (
	// ErrSourceNotFound is returned when a timeline source does not exist.
	ErrSourceNotFound = errors.New("timeline: source not found")
	// ErrSourceRead is returned when a timeline source exists but cannot be read.
	ErrSourceRead = errors.New("timeline: source read failed")
)

// Loader resolves source ids against a file system and parses the result.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a loader reading sources from fsys.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// LoadFromSource reads and parses the named source. Parse failures are
// returned as *ParseError with Source set.
func (l *Loader) LoadFromSource(sourceID string) (*Document, error) {
	if l == nil || l.fsys == nil {
		return nil, fmt.Errorf("%w: %s (no sources configured)", ErrSourceNotFound, sourceID)
	}
	name := path.Clean(strings.TrimPrefix(strings.TrimSpace(sourceID), "/"))
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("%w: invalid source id %q", ErrSourceNotFound, sourceID)
	}
	raw, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceNotFound, sourceID, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceRead, sourceID, err)
	}
	doc, err := Parse(raw)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Source = sourceID
		}
		return nil, err
	}
	return doc, nil
}

// Sources lists the YAML sources available to the loader.
func (l *Loader) Sources() ([]string, error) {
	if l == nil || l.fsys == nil {
		return nil, nil
	}
	var out []string
	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := path.Ext(p); ext == ".yaml" || ext == ".yml" {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list timeline sources: %w", err)
	}
	return out, nil
}
