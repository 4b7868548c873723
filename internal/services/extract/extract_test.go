package extract

import (
	"fmt"
	"strings"
	"testing"
)

func TestCleanText_DropsNoisyLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text kept",
			in:   "This agreement is made between the parties.",
			want: "This agreement is made between the parties.",
		},
		{
			name: "operator junk dropped",
			in:   "Payment is due monthly.\n^^~~|||***<<<>>>===+++",
			want: "Payment is due monthly.",
		},
		{
			name: "short lines dropped",
			in:   "ab\nThe tenant shall pay rent.",
			want: "The tenant shall pay rent.",
		},
		{
			name: "whitespace collapsed",
			in:   "The  landlord\t\tmay   enter.",
			want: "The landlord may enter.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJoinPages_MarkerPerReadablePage(t *testing.T) {
	// 10-page PDF with readable text on 8 pages: exactly 8 markers.
	pageTexts := make(map[int]string)
	for i := 1; i <= 10; i++ {
		if i == 4 || i == 9 {
			continue // pages that yielded nothing
		}
		pageTexts[i] = fmt.Sprintf("Clause %d: the parties agree to the stated terms.", i)
	}

	text := joinPages(pageTexts, 10)

	markers := strings.Count(text, "--- Page ")
	if markers != 8 {
		t.Errorf("page markers = %d, want 8", markers)
	}
	if strings.Contains(text, "--- Page 4 ---") || strings.Contains(text, "--- Page 9 ---") {
		t.Error("empty pages must not produce markers")
	}
}

func TestJoinPages_AllEmptyYieldsSentinel(t *testing.T) {
	if got := joinPages(map[int]string{}, 3); got != NoReadableText {
		t.Errorf("joinPages() = %q, want sentinel %q", got, NoReadableText)
	}
}

func TestCache_RoundTrip(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Get("fid123"); ok {
		t.Fatal("empty cache reported a hit")
	}

	if err := cache.Put("fid123", "extracted text"); err != nil {
		t.Fatal(err)
	}

	got, ok := cache.Get("fid123")
	if !ok {
		t.Fatal("cache miss after Put")
	}
	if got != "extracted text" {
		t.Errorf("cached text = %q, want %q", got, "extracted text")
	}
}
