package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// programCache stores parse results keyed by the xxh3 hash of the source.
// Programs are immutable once parsed, so one result is shared by every
// interpreter in the process.
var programCache sync.Map

// entry holds the parse result of one source text.
type entry struct {
	once   sync.Once
	source string
	prog   *Program
	err    error
}

// ParseCached parses source text, reusing the result of an earlier parse of
// identical text. Parse errors are cached as well.
func ParseCached(
	ctx context.Context,
	s string,
	opts ...ParseOption,
) (*Program, error) {
	logger := newParser("", opts...).logger

	hash := xxh3.HashString(s)
	key := strconv.FormatUint(hash, 36)

	value, hit := programCache.LoadOrStore(key, &entry{source: s})

	e, ok := value.(*entry)
	if !ok || e.source != s {
		// Hash collision or foreign value: parse without caching.
		logger.TraceContext(ctx, "cache bypass", slog.String("source_hash", key))

		return ParseString(ctx, s, opts...)
	}

	logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", key),
		slog.Bool("cache_hit", hit))

	e.once.Do(func() {
		e.prog, e.err = ParseString(ctx, s, opts...)
	})

	return e.prog, e.err
}

// ParseReader reads all of r with asynchronous read-ahead and parses it
// through the parse cache.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...ParseOption,
) (*Program, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseCached(ctx, string(data), opts...)
}

// ClearCache removes all cached parse results.
func ClearCache() {
	programCache.Clear()
}
