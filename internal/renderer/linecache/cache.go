// Package linecache caches rendered lines for a host view so unchanged
// lines are not rendered again on every frame.
package linecache

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/viewline/internal/renderer/viewline"
)

// Source supplies render inputs for buffer lines.
type Source interface {
	// LineCount returns the number of lines in the buffer.
	LineCount() int

	// LineInput returns the render input for a line. The result is owned
	// by the caller.
	LineInput(line uint32) *viewline.RenderLineInput
}

// CachedLine is a rendered line with its validation data.
type CachedLine struct {
	// BufferLine is the buffer line number.
	BufferLine uint32

	// Output is the rendered line.
	Output *viewline.RenderLineOutput

	// Version is the cache version the line was rendered under.
	Version uint64

	// LastAccess tracks when this entry was last used.
	LastAccess time.Time

	// InputHash fingerprints the content, tokens and decorations.
	InputHash uint64
}

// Config configures the line cache.
type Config struct {
	// MaxCachedLines is the maximum number of lines to cache.
	MaxCachedLines int

	// PrefetchLines is the number of lines to prefetch around a center line.
	PrefetchLines int

	// EvictionBatchSize is the number of entries to evict at once.
	EvictionBatchSize int
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxCachedLines:    2000,
		PrefetchLines:     20,
		EvictionBatchSize: 50,
	}
}

// Cache holds rendered lines keyed by buffer line.
type Cache struct {
	mu sync.RWMutex

	config  Config
	entries map[uint32]*CachedLine

	// version is bumped when every line must be re-rendered, for example
	// after a configuration change.
	version uint64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a new line cache.
func New(config Config) *Cache {
	if config.MaxCachedLines <= 0 {
		config.MaxCachedLines = 2000
	}
	if config.EvictionBatchSize <= 0 {
		config.EvictionBatchSize = 50
	}
	return &Cache{
		config:  config,
		entries: make(map[uint32]*CachedLine),
	}
}

// GetLine returns the rendered line, rendering it when the cached entry is
// missing or was rendered from different input.
func (c *Cache) GetLine(line uint32, in *viewline.RenderLineInput) *CachedLine {
	hash := hashInput(in)

	c.mu.Lock()
	if entry, ok := c.entries[line]; ok && entry.InputHash == hash && entry.Version == c.version {
		entry.LastAccess = time.Now()
		c.mu.Unlock()
		c.hits.Add(1)
		return entry
	}
	version := c.version
	c.mu.Unlock()

	out := viewline.RenderViewLine(in)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have rendered the line meanwhile.
	if entry, ok := c.entries[line]; ok && entry.InputHash == hash && entry.Version == version {
		entry.LastAccess = time.Now()
		c.hits.Add(1)
		return entry
	}

	c.misses.Add(1)
	entry := &CachedLine{
		BufferLine: line,
		Output:     out,
		Version:    version,
		LastAccess: time.Now(),
		InputHash:  hash,
	}
	c.entries[line] = entry
	c.evictIfNeeded()
	return entry
}

// Invalidate drops a single line.
func (c *Cache) Invalidate(line uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, line)
}

// InvalidateRange drops lines startLine through endLine inclusive.
func (c *Cache) InvalidateRange(startLine, endLine uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for line := range c.entries {
		if line >= startLine && line <= endLine {
			delete(c.entries, line)
		}
	}
}

// InvalidateFrom drops all lines from line onwards.
func (c *Cache) InvalidateFrom(line uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for l := range c.entries {
		if l >= line {
			delete(c.entries, l)
		}
	}
}

// InvalidateAll marks every entry stale. Entries are dropped lazily.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.version++
}

// ShiftLines moves entries at or after fromLine by delta when lines are
// inserted or deleted above them.
func (c *Cache) ShiftLines(fromLine uint32, delta int) {
	if delta == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	moved := make(map[uint32]*CachedLine)
	for line, entry := range c.entries {
		if line < fromLine {
			continue
		}
		delete(c.entries, line)
		newLine := int64(line) + int64(delta)
		if newLine >= 0 && newLine <= math.MaxUint32 {
			entry.BufferLine = uint32(newLine)
			moved[uint32(newLine)] = entry
		}
	}
	for line, entry := range moved {
		c.entries[line] = entry
	}
}

// Reconcile updates the cache after the buffer changed from oldLines to
// newLines. Entries of changed lines are dropped and entries below the
// change move with their lines.
func (c *Cache) Reconcile(oldLines, newLines []string) {
	prefix := 0
	for prefix < len(oldLines) && prefix < len(newLines) && oldLines[prefix] == newLines[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(oldLines)-prefix && suffix < len(newLines)-prefix &&
		oldLines[len(oldLines)-1-suffix] == newLines[len(newLines)-1-suffix] {
		suffix++
	}

	if suffix == 0 {
		c.InvalidateFrom(uint32(prefix))
		return
	}
	changedEnd := len(oldLines) - suffix
	switch {
	case changedEnd-prefix == 1:
		c.Invalidate(uint32(prefix))
	case changedEnd > prefix:
		c.InvalidateRange(uint32(prefix), uint32(changedEnd-1))
	}
	c.ShiftLines(uint32(changedEnd), len(newLines)-len(oldLines))
}

// evictIfNeeded drops the least recently used entries once the cache
// exceeds its limit. The caller holds the write lock.
func (c *Cache) evictIfNeeded() {
	if len(c.entries) <= c.config.MaxCachedLines {
		return
	}

	type entryInfo struct {
		line   uint32
		access time.Time
	}
	infos := make([]entryInfo, 0, len(c.entries))
	for line, entry := range c.entries {
		infos = append(infos, entryInfo{line, entry.LastAccess})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].access.Before(infos[j].access)
	})

	toEvict := min(len(c.entries)-c.config.MaxCachedLines+c.config.EvictionBatchSize, len(infos))
	for i := 0; i < toEvict; i++ {
		delete(c.entries, infos[i].line)
	}
	c.evictions.Add(uint64(toEvict))
}

// PrefetchLines renders the configured number of lines around
// centerLine.
func (c *Cache) PrefetchLines(centerLine uint32, src Source) {
	c.mu.RLock()
	count := c.config.PrefetchLines
	c.mu.RUnlock()

	if count <= 0 || src.LineCount() == 0 {
		return
	}

	start := int64(centerLine) - int64(count)
	end := min(int64(centerLine)+int64(count), int64(src.LineCount())-1)
	for line := max(start, 0); line <= end; line++ {
		if in := src.LineInput(uint32(line)); in != nil {
			c.GetLine(uint32(line), in)
		}
	}
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	evictions := c.evictions.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheStats{
		Size:      len(c.entries),
		MaxSize:   c.config.MaxCachedLines,
		Hits:      hits,
		Misses:    misses,
		Evictions: evictions,
		HitRate:   hitRate,
		Version:   c.version,
	}
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Size      int
	MaxSize   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
	Version   uint64
}
