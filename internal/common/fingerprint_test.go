package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFingerprint_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lease.pdf")
	if err := os.WriteFile(path, []byte("some lease content"), 0644); err != nil {
		t.Fatal(err)
	}

	first := Fingerprint(path)
	second := Fingerprint(path)

	if first == "" {
		t.Fatal("Fingerprint() returned empty string")
	}
	if first != second {
		t.Errorf("Fingerprint() not idempotent: %s != %s", first, second)
	}
	if len(first) != 32 {
		t.Errorf("Fingerprint() length = %d, want 32 (hex md5)", len(first))
	}
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	if err := os.WriteFile(a, []byte("contract A"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("contract B with different size"), 0644); err != nil {
		t.Fatal(err)
	}

	if Fingerprint(a) == Fingerprint(b) {
		t.Error("distinct files with distinct metadata produced the same fingerprint")
	}
}

func TestFingerprint_MissingFile(t *testing.T) {
	// A path that cannot be stat'd or opened still yields a deterministic id.
	path := filepath.Join(t.TempDir(), "does-not-exist.pdf")

	first := Fingerprint(path)
	second := Fingerprint(path)

	if first == "" || first != second {
		t.Errorf("fallback fingerprint not deterministic: %q vs %q", first, second)
	}
}
