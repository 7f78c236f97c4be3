package likes

import (
	"context"
	"errors"
	"log"
	"time"

	"finstagram/apperrors"
	"finstagram/db"
	"finstagram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func postExists(ctx context.Context, postID string) error {
	err := db.PostsCollection.FindOne(ctx, bson.M{"postid": postID},
		options.FindOne().SetProjection(bson.M{"postid": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.NotFoundf("No post found with this id.")
	}
	if err != nil {
		return apperrors.Internal("Failed to look up post", err)
	}
	return nil
}

// Like records that userID likes postID and increments the post's counter.
// The unique (postid, userid) index turns a concurrent duplicate into a
// conflict, so the insert-and-increment pair never double counts.
func Like(ctx context.Context, postID, userID string) (int, error) {
	if err := postExists(ctx, postID); err != nil {
		return 0, err
	}

	_, err := db.LikesCollection.InsertOne(ctx, models.Like{
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return 0, apperrors.Conflictf("You have already liked this post.")
	}
	if err != nil {
		return 0, apperrors.Internal("Failed to record like", err)
	}

	count, err := adjustCounter(ctx, postID, +1)
	if err != nil {
		// The like record committed but the counter did not move; undo the
		// record so the pair does not stay divergent. Uses a fresh context
		// because the caller's may be what failed.
		compCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, delErr := db.LikesCollection.DeleteOne(compCtx, bson.M{"postid": postID, "userid": userID}); delErr != nil {
			log.Printf("like compensation failed for %s/%s: %v", postID, userID, delErr)
		}
		return 0, err
	}

	go bumpTrending(postID, +1)
	return count, nil
}

// Unlike removes the like record and decrements the counter, clamped at zero.
func Unlike(ctx context.Context, postID, userID string) (int, error) {
	if err := postExists(ctx, postID); err != nil {
		return 0, err
	}

	res, err := db.LikesCollection.DeleteOne(ctx, bson.M{"postid": postID, "userid": userID})
	if err != nil {
		return 0, apperrors.Internal("Failed to remove like", err)
	}
	if res.DeletedCount == 0 {
		return 0, apperrors.NotFoundf("You have not liked this post.")
	}

	count, err := adjustCounter(ctx, postID, -1)
	if err != nil {
		// Mirror image of the like path: restore the deleted record so the
		// like-set and the counter agree again.
		compCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, insErr := db.LikesCollection.InsertOne(compCtx, models.Like{
			PostID:    postID,
			UserID:    userID,
			CreatedAt: time.Now(),
		})
		if insErr != nil {
			log.Printf("unlike compensation failed for %s/%s: %v", postID, userID, insErr)
		}
		return 0, err
	}

	go bumpTrending(postID, -1)
	return count, nil
}

// adjustCounter applies a single atomic $inc to the post's denormalized
// like counter and returns the new value. Decrements are guarded by a
// likes > 0 filter so the counter never goes negative.
func adjustCounter(ctx context.Context, postID string, delta int) (int, error) {
	filter := bson.M{"postid": postID}
	if delta < 0 {
		filter["likes"] = bson.M{"$gt": 0}
	}

	var updated models.Post
	err := db.PostsCollection.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$inc": bson.M{"likes": delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Decrement raced the counter to zero already; report the floor.
		return 0, nil
	}
	if err != nil {
		return 0, apperrors.Internal("Failed to update like count", err)
	}
	return updated.Likes, nil
}

// ListLikers returns the users who liked a post, most recent first.
func ListLikers(ctx context.Context, postID string) ([]models.Liker, error) {
	if err := postExists(ctx, postID); err != nil {
		return nil, err
	}

	cursor, err := db.LikesCollection.Find(ctx,
		bson.M{"postid": postID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch likers", err)
	}
	defer cursor.Close(ctx)

	var likeDocs []models.Like
	if err := cursor.All(ctx, &likeDocs); err != nil {
		return nil, apperrors.Internal("Failed to decode likers", err)
	}

	if len(likeDocs) == 0 {
		return []models.Liker{}, nil
	}

	userIDs := make([]string, 0, len(likeDocs))
	for _, l := range likeDocs {
		userIDs = append(userIDs, l.UserID)
	}

	userCursor, err := db.UserCollection.Find(ctx, bson.M{"userid": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch liker profiles", err)
	}
	defer userCursor.Close(ctx)

	byID := make(map[string]models.Liker)
	for userCursor.Next(ctx) {
		var u models.Liker
		if err := userCursor.Decode(&u); err == nil {
			byID[u.UserID] = u
		}
	}

	// Preserve the like-recency order from the likes query.
	likers := make([]models.Liker, 0, len(likeDocs))
	for _, l := range likeDocs {
		if u, ok := byID[l.UserID]; ok {
			likers = append(likers, u)
		}
	}
	return likers, nil
}

// HasLiked reports the (post, viewer) membership that backs likedByMe.
func HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	count, err := db.LikesCollection.CountDocuments(ctx, bson.M{"postid": postID, "userid": userID})
	if err != nil {
		return false, apperrors.Internal("Failed to query like state", err)
	}
	return count > 0, nil
}

// LikedSet returns which of the given posts the viewer has liked, for
// embedding likedByMe into a feed page with one query.
func LikedSet(ctx context.Context, postIDs []string, userID string) (map[string]bool, error) {
	liked := make(map[string]bool, len(postIDs))
	if userID == "" || len(postIDs) == 0 {
		return liked, nil
	}

	cursor, err := db.LikesCollection.Find(ctx, bson.M{
		"userid": userID,
		"postid": bson.M{"$in": postIDs},
	})
	if err != nil {
		return nil, apperrors.Internal("Failed to query like state", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var l models.Like
		if err := cursor.Decode(&l); err == nil {
			liked[l.PostID] = true
		}
	}
	return liked, nil
}

// DeleteForPost cascades removal of a post's like-set and trending score.
// Called from the post delete path.
func DeleteForPost(ctx context.Context, postID string) error {
	if _, err := db.LikesCollection.DeleteMany(ctx, bson.M{"postid": postID}); err != nil {
		return apperrors.Internal("Failed to remove likes", err)
	}
	go dropTrending(postID)
	return nil
}
