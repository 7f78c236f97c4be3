package feed

import (
	"context"
	"log"
	"net/http"
	"time"

	"finstagram/apperrors"
	"finstagram/db"
	"finstagram/likes"
	"finstagram/models"
	"finstagram/rdx"
	"finstagram/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// trendingWindow bounds the MongoDB fallback ranking to recent like activity.
const trendingWindow = 7 * 24 * time.Hour

// GetTrending handles GET /api/v1/trending?page=&limit=
//
// Same pagination and likedByMe contract as the timeline; only the ranking
// differs. Anonymous viewers get likedByMe=false throughout.
func GetTrending(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	viewerID := utils.GetUserIDFromRequest(r)
	page := utils.ParsePagination(r)

	rankedIDs, err := rankedPostIDs(ctx, page)
	if err != nil {
		utils.RespondErr(w, err)
		return
	}

	posts, err := postsInRankOrder(ctx, rankedIDs)
	if err != nil {
		utils.RespondErr(w, err)
		return
	}

	out, err := embedLikeState(ctx, posts, viewerID)
	if err != nil {
		utils.RespondErr(w, err)
		return
	}

	utils.RespondResults(w, http.StatusOK, len(out), utils.M{"posts": out})
}

// rankedPostIDs pages the Redis popularity set, recomputing from MongoDB
// when Redis errors or its page comes back empty. An empty ZSET is treated
// the same as an unavailable one because Redis may have restarted and lost
// its cumulative scores while the likes collection can still rank posts.
func rankedPostIDs(ctx context.Context, page utils.Pagination) ([]string, error) {
	ids, err := trendingIDsFromRedis(ctx, page)
	if err == nil && len(ids) > 0 {
		return ids, nil
	}
	if err != nil {
		log.Printf("trending: redis rank unavailable, using mongo fallback: %v", err)
	}
	return trendingIDsFromMongo(ctx, page)
}

// trendingIDsFromRedis pages the live popularity sorted set.
func trendingIDsFromRedis(ctx context.Context, page utils.Pagination) ([]string, error) {
	start := int64(page.Skip())
	stop := start + int64(page.Limit) - 1

	ids, err := rdx.Conn.ZRevRange(ctx, likes.TrendingKey, start, stop).Result()
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// trendingIDsFromMongo recomputes the ranking from the likes collection
// over the recent window when Redis cannot serve it.
func trendingIDsFromMongo(ctx context.Context, page utils.Pagination) ([]string, error) {
	since := time.Now().Add(-trendingWindow)

	pipeline := []bson.M{
		{"$match": bson.M{"created_at": bson.M{"$gte": since}}},
		{"$group": bson.M{"_id": "$postid", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: -1}}},
		{"$skip": page.Skip()},
		{"$limit": page.Limit},
	}

	cursor, err := db.LikesCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Internal("Failed to rank trending posts", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var row struct {
			PostID string `bson:"_id"`
		}
		if err := cursor.Decode(&row); err == nil {
			ids = append(ids, row.PostID)
		}
	}
	return ids, nil
}

// postsInRankOrder fetches the page's posts and restores the ranking order
// the id list came in with.
func postsInRankOrder(ctx context.Context, rankedIDs []string) ([]models.Post, error) {
	if len(rankedIDs) == 0 {
		return []models.Post{}, nil
	}

	cursor, err := db.PostsCollection.Find(ctx, bson.M{"postid": bson.M{"$in": rankedIDs}},
		options.Find())
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch posts", err)
	}
	defer cursor.Close(ctx)

	byID := make(map[string]models.Post, len(rankedIDs))
	for cursor.Next(ctx) {
		var p models.Post
		if err := cursor.Decode(&p); err == nil {
			byID[p.PostID] = p
		}
	}

	posts := make([]models.Post, 0, len(rankedIDs))
	for _, id := range rankedIDs {
		if p, ok := byID[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}
