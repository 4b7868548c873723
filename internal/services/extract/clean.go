package extract

import (
	"regexp"
	"strings"
)

var (
	horizontalSpace = regexp.MustCompile(`[\t ]+`)
	newlineRuns     = regexp.MustCompile(`\s*\n\s*`)
)

// readable is the set of punctuation considered part of normal document text.
// Characters outside letters, digits and this set count as noise.
const readable = " .,:;!?()-'/\"%$#&@[]{}"

// maxNoiseRatio is the fraction of noisy characters above which a line is
// dropped entirely (OCR artifacts, PDF operator junk).
const maxNoiseRatio = 0.4

// CleanText normalizes whitespace and drops lines that are mostly
// non-alphanumeric noise. Lines shorter than 3 characters after trimming are
// discarded as well.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\x00", " ")
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n")

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if len(strings.TrimSpace(ln)) < 3 {
			continue
		}
		bad := 0
		for _, c := range ln {
			if !isReadable(c) {
				bad++
			}
		}
		if float64(bad)/float64(max(1, len([]rune(ln)))) > maxNoiseRatio {
			continue
		}
		lines = append(lines, ln)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func isReadable(c rune) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return true
	}
	// Non-ASCII letters (accented characters, other scripts) are readable.
	if c > 127 {
		return true
	}
	return strings.ContainsRune(readable, c)
}
