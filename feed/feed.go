package feed

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finstagram/apperrors"
	"finstagram/db"
	"finstagram/likes"
	"finstagram/models"
	"finstagram/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetTimeline handles GET /api/v1/timeline?page=&limit=
func GetTimeline(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	viewerID := utils.GetUserIDFromRequest(r)
	if viewerID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page := utils.ParsePagination(r)

	posts, err := assembleTimeline(ctx, viewerID, page)
	if err != nil {
		utils.RespondErr(w, err)
		return
	}

	utils.RespondResults(w, http.StatusOK, len(posts), utils.M{"posts": posts})
}

// assembleTimeline is the two-stage feed query: resolve the eligible
// followee id set, then page their posts newest first.
func assembleTimeline(ctx context.Context, viewerID string, page utils.Pagination) ([]models.FeedPost, error) {
	// Stage 0: the viewer must exist; everything else degrades to empty.
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": viewerID},
		options.FindOne().SetProjection(bson.M{"userid": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFoundf("No user found with this id.")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve viewer", err)
	}

	followeeIDs, err := eligibleFolloweeIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(followeeIDs) == 0 {
		return []models.FeedPost{}, nil
	}

	cursor, err := db.PostsCollection.Find(ctx,
		bson.M{"userid": bson.M{"$in": followeeIDs}},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "postid", Value: -1}}).
			SetSkip(int64(page.Skip())).
			SetLimit(int64(page.Limit)),
	)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch posts", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, apperrors.Internal("Failed to decode posts", err)
	}

	return embedLikeState(ctx, posts, viewerID)
}

// eligibleFolloweeIDs resolves the viewer's follow list and keeps only
// followees whose own activity flag is set.
func eligibleFolloweeIDs(ctx context.Context, viewerID string) ([]string, error) {
	var follow models.UserFollow
	err := db.FollowingsCollection.FindOne(ctx, bson.M{"userid": viewerID}).Decode(&follow)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch follow list", err)
	}
	if len(follow.Follows) == 0 {
		return nil, nil
	}

	cursor, err := db.UserCollection.Find(ctx,
		bson.M{"userid": bson.M{"$in": follow.Follows}},
		options.Find().SetProjection(bson.M{"userid": 1, "is_active": 1}),
	)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch followees", err)
	}
	defer cursor.Close(ctx)

	var followees []models.User
	if err := cursor.All(ctx, &followees); err != nil {
		return nil, apperrors.Internal("Failed to decode followees", err)
	}

	return FilterActive(followees), nil
}

// embedLikeState attaches likedByMe to each post with a single membership
// query. The snapshot may be stale the moment it is read; that is accepted
// on the feed read path.
func embedLikeState(ctx context.Context, posts []models.Post, viewerID string) ([]models.FeedPost, error) {
	if len(posts) == 0 {
		return []models.FeedPost{}, nil
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.PostID)
	}

	liked, err := likes.LikedSet(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}

	out := make([]models.FeedPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, models.FeedPost{Post: p, LikedByMe: liked[p.PostID]})
	}
	return out, nil
}
