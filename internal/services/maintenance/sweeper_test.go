package maintenance

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
)

func TestSweep_RemovesOnlyStaleArtifacts(t *testing.T) {
	cacheDir := t.TempDir()
	indexDir := t.TempDir()

	stale := filepath.Join(cacheDir, "extract_old.txt")
	fresh := filepath.Join(cacheDir, "extract_new.txt")
	other := filepath.Join(cacheDir, "notes.txt")
	for _, p := range []string{stale, fresh, other} {
		if err := os.WriteFile(p, []byte("text"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	staleIdx := filepath.Join(indexDir, "vs_lexical_old")
	freshIdx := filepath.Join(indexDir, "vs_lexical_new")
	for _, d := range []string{staleIdx, freshIdx} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Chtimes(staleIdx, old, old); err != nil {
		t.Fatal(err)
	}

	s := NewSweeper(cacheDir, indexDir, 24*time.Hour, arbor.NewLogger())
	s.Sweep()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale extraction file was not removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh extraction file was removed")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("non-cache file was removed")
	}
	if _, err := os.Stat(staleIdx); !os.IsNotExist(err) {
		t.Error("stale index directory was not removed")
	}
	if _, err := os.Stat(freshIdx); err != nil {
		t.Error("fresh index directory was removed")
	}
}
