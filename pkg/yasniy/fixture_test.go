package yasniy

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestFixtures runs every source fixture under testdata/fixtures,
// comparing captured stdout against a sibling .txt file when one
// exists, and falling back to a go-snaps snapshot otherwise.
func TestFixtures(t *testing.T) {
	matches, err := filepath.Glob("../../testdata/fixtures/*.яс")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("no fixtures found under testdata/fixtures")
	}

	for _, srcPath := range matches {
		srcPath := srcPath
		name := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
		t.Run(name, func(t *testing.T) {
			source, err := os.ReadFile(srcPath)
			if err != nil {
				t.Fatalf("ReadFile %s: %v", srcPath, err)
			}

			engine, err := New()
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			var buf bytes.Buffer
			engine.SetOutput(&buf)

			if _, err := engine.Eval(string(source)); err != nil {
				t.Fatalf("Eval %s: %v", name, err)
			}
			actual := buf.String()

			expectedPath := strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + ".txt"
			if expected, err := os.ReadFile(expectedPath); err == nil {
				if actual != string(expected) {
					t.Errorf("output mismatch for %s:\nwant:\n%s\ngot:\n%s", name, expected, actual)
				}
				return
			}

			snaps.MatchSnapshot(t, name+"_output", actual)
		})
	}
}
