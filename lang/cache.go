package lang

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed programs keyed by source and parse options.
// A cached *AST is shared by every caller and must not be modified.
var globalCache sync.Map

// entry parses its source at most once.
type entry struct {
	once sync.Once
	ast  *AST
	err  error
}

// ParseReader reads all of r and parses it. Programs are cached by content,
// so parsing the same source again returns the same *AST.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*AST, error) {
	return parseReader(ctx, r, makeOptions(opts...))
}

func parseReader(ctx context.Context, r io.Reader, o options) (*AST, error) {
	// Read-ahead lets the producer fill buffers while we copy.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrIO.Msg("read source").
			Wrap(err).
			With(slog.String("source", "reader"))
	}

	o.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	return parseCached(ctx, string(data), o)
}

// parseCached parses source through the global cache.
func parseCached(ctx context.Context, source string, o options) (*AST, error) {
	key := cacheKey(source, o)

	value, hit := globalCache.LoadOrStore(key, new(entry))

	e, ok := value.(*entry)
	if !ok {
		return nil, ErrInvalidOperation.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", strconv.FormatUint(key, 16)),
		slog.Bool("cache_hit", hit))

	e.once.Do(func() {
		e.ast, e.err = parseSource(ctx, source, o)
	})

	return e.ast, e.err
}

// cacheKey hashes source together with the options that affect parsing.
func cacheKey(source string, o options) uint64 {
	var depth [8]byte

	binary.LittleEndian.PutUint64(depth[:], uint64(o.maxDepth))

	return xxh3.HashString(source) ^ xxh3.Hash(depth[:])
}

// ClearCache removes all cached programs.
func ClearCache() {
	globalCache.Clear()
}
