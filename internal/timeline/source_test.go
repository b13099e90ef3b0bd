package timeline

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadFromSource(t *testing.T) {
	fsys := fstest.MapFS{
		"path1.yaml": {Data: []byte(twoBeatYAML)},
		"broken.yaml": {Data: []byte(`
title: "Broken"
frames:
  - {index: 2, time: "00:00-00:01"}
`)},
	}
	loader := NewLoader(fsys)

	doc, err := loader.LoadFromSource("path1.yaml")
	if err != nil {
		t.Fatalf("LoadFromSource failed: %v", err)
	}
	if doc.Len() != 2 {
		t.Errorf("Expected 2 beats, got %d", doc.Len())
	}

	_, err = loader.LoadFromSource("missing.yaml")
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Expected ErrSourceNotFound, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected error to wrap fs.ErrNotExist, got %v", err)
	}

	_, err = loader.LoadFromSource("broken.yaml")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if perr.Source != "broken.yaml" {
		t.Errorf("Expected source to be recorded, got %q", perr.Source)
	}
	if !strings.HasPrefix(err.Error(), "broken.yaml: ") {
		t.Errorf("Expected message prefixed with source, got %q", err.Error())
	}
}

func TestLoadFromSourceRejectsEscapes(t *testing.T) {
	loader := NewLoader(fstest.MapFS{})
	for _, id := range []string{"", "../etc/passwd", "."} {
		if _, err := loader.LoadFromSource(id); !errors.Is(err, ErrSourceNotFound) {
			t.Errorf("LoadFromSource(%q): expected ErrSourceNotFound, got %v", id, err)
		}
	}
}

func TestNilLoader(t *testing.T) {
	var loader *Loader
	if _, err := loader.LoadFromSource("a.yaml"); !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Expected ErrSourceNotFound from nil loader, got %v", err)
	}
}

func TestSources(t *testing.T) {
	loader := NewLoader(fstest.MapFS{
		"b.yaml":        {Data: []byte("x")},
		"a.yml":         {Data: []byte("x")},
		"readme.md":     {Data: []byte("x")},
		"sub/deep.yaml": {Data: []byte("x")},
	})
	got, err := loader.Sources()
	if err != nil {
		t.Fatalf("Sources failed: %v", err)
	}
	want := []string{"a.yml", "b.yaml", "sub/deep.yaml"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte(`
title: "Overlap"
frames:
  - {index: 1, time: "00:00-00:05"}
  - {index: 2, time: "00:03-00:08"}
`), 0o644); err != nil {
		t.Fatal(err)
	}

	report := ValidateFile(good)
	if !report.OK() {
		t.Fatalf("Expected valid report, got %v", report.Err)
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Position != 2 {
		t.Errorf("Expected one overlap warning at beat 2, got %v", report.Warnings)
	}

	missing := ValidateFile(filepath.Join(dir, "nope.yaml"))
	if !errors.Is(missing.Err, ErrSourceNotFound) {
		t.Errorf("Expected ErrSourceNotFound, got %v", missing.Err)
	}
}
