package taxo

import (
	"context"

	"github.com/taxolab/taxo/pkg/taxo/cache"
	"github.com/taxolab/taxo/pkg/taxo/internalerr"
)

// CacheInfo reports what the configured cache holds.
func (e *Engine) CacheInfo(ctx context.Context) (Record, error) {
	if e.cache == nil {
		return nil, internalerr.Invalid("no cache configured")
	}
	info, err := e.cache.Info(ctx)
	if err != nil {
		return nil, err
	}
	byKind := Record{}
	for kind, n := range info.ByKind {
		byKind[kind] = n
	}
	return Record{
		"path":       info.Path,
		"size_bytes": info.SizeBytes,
		"entries":    info.Entries,
		"by_kind":    byKind,
	}, nil
}

// CacheClear drops cached artifacts of one kind, or everything when kind
// is empty, and reports how many entries went away.
func (e *Engine) CacheClear(ctx context.Context, kind string) (Record, error) {
	if e.cache == nil {
		return nil, internalerr.Invalid("no cache configured")
	}
	parsed := cache.Kind("")
	if kind != "" {
		k, ok := cache.ParseKind(kind)
		if !ok {
			return nil, internalerr.Invalid("unknown cache kind %q, use: %s", kind, kindNames())
		}
		parsed = k
	}
	cleared, err := e.cache.Invalidate(ctx, parsed)
	if err != nil {
		return nil, err
	}
	result := Record{"cleared": cleared}
	if parsed != "" {
		result["kind"] = string(parsed)
	} else {
		result["kind"] = "all"
	}
	return result, nil
}

func kindNames() string {
	names := ""
	for i, k := range cache.AllKinds() {
		if i > 0 {
			names += ", "
		}
		names += string(k)
	}
	return names
}
