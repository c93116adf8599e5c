package cache

import (
	"context"

	"github.com/ziadkadry99/ytnotes/internal/youtube"
)

// CachedFetcher serves transcripts from the cache before hitting YouTube.
type CachedFetcher struct {
	next  youtube.TranscriptFetcher
	cache *Cache
}

// NewCachedFetcher wraps next with c.
func NewCachedFetcher(next youtube.TranscriptFetcher, c *Cache) *CachedFetcher {
	return &CachedFetcher{next: next, cache: c}
}

func (f *CachedFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	if text, ok := f.cache.Get(ctx, videoID); ok {
		return text, nil
	}
	text, err := f.next.Fetch(ctx, videoID)
	if err != nil {
		return "", err
	}
	f.cache.Set(ctx, videoID, text)
	return text, nil
}
