// Package maintenance runs the scheduled cache sweep: extraction text
// files and similarity index directories untouched longer than the
// configured TTL are removed so the filesystem caches stay bounded.
package maintenance

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Sweeper periodically purges stale cache artifacts. Removing a cache
// entry is always safe: the next request for that fingerprint rebuilds
// it from the source file or re-extracts.
type Sweeper struct {
	cacheDir string
	indexDir string
	ttl      time.Duration
	cron     *cron.Cron
	gc       func() error
	logger   arbor.ILogger
	running  bool
}

// NewSweeper creates a cache sweeper over the cache and index
// directories.
func NewSweeper(cacheDir, indexDir string, ttl time.Duration, logger arbor.ILogger) *Sweeper {
	return &Sweeper{
		cacheDir: cacheDir,
		indexDir: indexDir,
		ttl:      ttl,
		cron:     cron.New(),
		logger:   logger,
	}
}

// SetGC registers a storage garbage-collection hook to run after each
// sweep.
func (s *Sweeper) SetGC(gc func() error) {
	s.gc = gc
}

// Start schedules the sweep with the given cron expression.
func (s *Sweeper) Start(cronExpr string) error {
	if s.running {
		return fmt.Errorf("sweeper already running")
	}
	if cronExpr == "" {
		cronExpr = "0 3 * * *" // Default: daily at 03:00
	}

	if _, err := s.cron.AddFunc(cronExpr, s.Sweep); err != nil {
		return fmt.Errorf("failed to schedule cache sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("cron_expr", cronExpr).
		Dur("ttl", s.ttl).
		Msg("Cache sweeper started")

	return nil
}

// Stop halts the scheduled sweep.
func (s *Sweeper) Stop() {
	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info().Msg("Cache sweeper stopped")
}

// Sweep removes stale extraction files and index directories in one
// pass. Individual removal failures are logged and skipped.
func (s *Sweeper) Sweep() {
	cutoff := time.Now().Add(-s.ttl)
	removed := 0

	removed += s.sweepExtractions(cutoff)
	removed += s.sweepIndexes(cutoff)

	if s.gc != nil {
		if err := s.gc(); err != nil {
			s.logger.Warn().Err(err).Msg("Storage garbage collection failed")
		}
	}

	s.logger.Info().
		Int("removed", removed).
		Str("cutoff", cutoff.Format(time.RFC3339)).
		Msg("Cache sweep completed")
}

func (s *Sweeper) sweepExtractions(cutoff time.Time) int {
	entries, err := os.ReadDir(s.cacheDir)
	if err != nil {
		s.logger.Warn().Err(err).Str("dir", s.cacheDir).Msg("Failed to read cache directory")
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "extract_") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.cacheDir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove stale extraction")
			continue
		}
		removed++
	}
	return removed
}

func (s *Sweeper) sweepIndexes(cutoff time.Time) int {
	entries, err := os.ReadDir(s.indexDir)
	if err != nil {
		s.logger.Warn().Err(err).Str("dir", s.indexDir).Msg("Failed to read index directory")
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "vs_") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.indexDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove stale index")
			continue
		}
		removed++
	}
	return removed
}
