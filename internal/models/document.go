package models

import (
	"time"
)

// Document represents an uploaded legal document. The fingerprint doubles as
// the document ID: identical file state re-uploaded by any user maps onto the
// same extraction cache and similarity index.
type Document struct {
	// Identity
	ID     string `json:"id"`      // Content fingerprint (cache key)
	UserID string `json:"user_id"` // Owning user

	// Upload metadata
	Filename  string `json:"filename"`
	Extension string `json:"extension"` // Lowercased, without dot: pdf, png, jpg, ...
	SizeBytes int64  `json:"size_bytes"`

	// Extraction metadata
	ExtractedChars int  `json:"extracted_chars"`
	Cached         bool `json:"cached"` // True when extraction was served from cache

	// Stored analysis report (generated once per fingerprint)
	Report *AnalysisReport `json:"report,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chunk is a bounded contiguous text segment, the unit of semantic retrieval.
// Chunks are produced deterministically from a document's text and fixed
// chunking parameters, in original document order.
type Chunk struct {
	Index int    `json:"index"` // Position in the original chunk sequence
	Text  string `json:"text"`
}

// ScoredChunk pairs a chunk with its similarity score for a query.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
