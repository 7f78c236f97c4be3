package likes

import (
	"context"
	"log"
	"time"

	"finstagram/rdx"
)

// TrendingKey is the sorted set scoring posts by like activity.
const TrendingKey = "trending:posts"

// bumpTrending adjusts a post's popularity score. Best effort: the likes
// collection remains the source of truth and the feed falls back to it
// when Redis is unavailable.
func bumpTrending(postID string, delta float64) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdx.Conn.ZIncrBy(ctx, TrendingKey, delta, postID).Err(); err != nil {
		log.Printf("trending score update failed for %s: %v", postID, err)
	}
}

func dropTrending(postID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdx.Conn.ZRem(ctx, TrendingKey, postID).Err(); err != nil {
		log.Printf("trending score removal failed for %s: %v", postID, err)
	}
}
