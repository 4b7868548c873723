package common

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// fingerprintHeadBytes is how much leading content is hashed when file
// metadata cannot be read.
const fingerprintHeadBytes = 4096

// Fingerprint derives a stable content identifier for the file at path.
// The primary form hashes (path, mtime-in-nanoseconds, size); if the file
// cannot be stat'd it falls back to hashing the first 4KB of content.
// Identical file state always yields the identical fingerprint, which makes
// it usable as the cache key for extraction, indexing and report storage.
// md5 is fine here: the fingerprint is a cache key, not a security boundary.
func Fingerprint(path string) string {
	if st, err := os.Stat(path); err == nil {
		s := fmt.Sprintf("%s|%d|%d", path, st.ModTime().UnixNano(), st.Size())
		sum := md5.Sum([]byte(s))
		return hex.EncodeToString(sum[:])
	}

	f, err := os.Open(path)
	if err != nil {
		// Nothing readable at all: hash the path so callers still get a
		// deterministic identifier.
		sum := md5.Sum([]byte(path))
		return hex.EncodeToString(sum[:])
	}
	defer f.Close()

	buf := make([]byte, fingerprintHeadBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		sum := md5.Sum([]byte(path))
		return hex.EncodeToString(sum[:])
	}
	sum := md5.Sum(buf[:n])
	return hex.EncodeToString(sum[:])
}
