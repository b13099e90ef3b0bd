package timeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Report is the outcome of validating one timeline file.
type Report struct {
	Path     string
	Document *Document
	Warnings []Warning
	Err      error
}

// OK reports whether the file parsed and validated.
func (r Report) OK() bool { return r.Err == nil }

// ValidateFile parses a timeline file from disk and lints it.
func ValidateFile(path string) Report {
	report := Report{Path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			report.Err = fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		} else {
			report.Err = fmt.Errorf("%w: %s: %w", ErrSourceRead, path, err)
		}
		return report
	}
	doc, err := Parse(raw)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Source = path
		}
		report.Err = err
		return report
	}
	report.Document = doc
	report.Warnings = Lint(doc)
	return report
}

// Watch re-validates timeline files whenever they change on disk and hands
// each report to fn. Paths may name files or directories; a directory
// covers every .yaml/.yml file inside it. Watch blocks until ctx is done.
func Watch(ctx context.Context, paths []string, debounce time.Duration, fn func(Report)) error {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dirs := make(map[string]bool)  // watched directories, true when all yaml inside counts
	files := make(map[string]bool) // explicitly named files
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err == nil && info.IsDir() {
			dirs[abs] = true
			continue
		}
		files[abs] = true
		if _, ok := dirs[filepath.Dir(abs)]; !ok {
			dirs[filepath.Dir(abs)] = false
		}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	tracked := func(name string) bool {
		if files[name] {
			return true
		}
		ext := filepath.Ext(name)
		return dirs[filepath.Dir(name)] && (ext == ".yaml" || ext == ".yml")
	}

	pending := make(map[string]bool)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if tracked(event.Name) {
				pending[event.Name] = true
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch timelines: %w", err)
		case <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			sort.Strings(names)
			clear(pending)
			for _, name := range names {
				if _, err := os.Stat(name); err != nil {
					// renamed away; the replacement arrives as its own Create
					continue
				}
				fn(ValidateFile(name))
			}
		}
	}
}
