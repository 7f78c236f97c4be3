package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"finstagram/apperrors"
	"finstagram/db"
	"finstagram/models"
	"finstagram/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Follow handles POST /api/v1/follow/:id
func Follow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	handleFollowAction(w, r, ps, "follow")
}

// Unfollow handles POST /api/v1/unfollow/:id
func Unfollow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	handleFollowAction(w, r, ps, "unfollow")
}

func handleFollowAction(w http.ResponseWriter, r *http.Request, ps httprouter.Params, action string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	currentUserID := utils.GetUserIDFromRequest(r)
	if currentUserID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	targetUserID := ps.ByName("id")

	if targetUserID == currentUserID {
		utils.RespondErr(w, apperrors.Validationf("You cannot follow yourself."))
		return
	}

	err := db.UserCollection.FindOne(ctx, bson.M{"userid": targetUserID},
		options.FindOne().SetProjection(bson.M{"userid": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondErr(w, apperrors.NotFoundf("No user found with this id."))
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := updateFollowRelationship(ctx, currentUserID, targetUserID, action); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update follow relationship")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{"isFollowing": action == "follow"})
}

// updateFollowRelationship maintains both directions of the follow edge.
// $addToSet keeps the (follower, followee) pair unique; upsert creates the
// follow document on a user's first edge.
func updateFollowRelationship(ctx context.Context, currentUserID, targetUserID, action string) error {
	if action != "follow" && action != "unfollow" {
		return fmt.Errorf("invalid action: %s", action)
	}

	op := "$addToSet"
	if action == "unfollow" {
		op = "$pull"
	}

	_, err := db.FollowingsCollection.UpdateOne(ctx,
		bson.M{"userid": currentUserID},
		bson.M{op: bson.M{"follows": targetUserID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to update current user's follows: %w", err)
	}

	_, err = db.FollowingsCollection.UpdateOne(ctx,
		bson.M{"userid": targetUserID},
		bson.M{op: bson.M{"followers": currentUserID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to update target user's followers: %w", err)
	}
	return nil
}

// GetFollowing handles GET /api/v1/users/following
func GetFollowing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondWithFollowList(w, r, "follows")
}

// GetFollowers handles GET /api/v1/users/followers
func GetFollowers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondWithFollowList(w, r, "followers")
}

func respondWithFollowList(w http.ResponseWriter, r *http.Request, side string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var follow models.UserFollow
	err := db.FollowingsCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&follow)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	ids := follow.Follows
	if side == "followers" {
		ids = follow.Followers
	}

	users := []models.Liker{}
	if len(ids) > 0 {
		cursor, err := db.UserCollection.Find(ctx, bson.M{"userid": bson.M{"$in": ids}},
			options.Find().SetProjection(bson.M{"userid": 1, "username": 1, "avatar": 1}))
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		defer cursor.Close(ctx)

		if err := cursor.All(ctx, &users); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	utils.RespondResults(w, http.StatusOK, len(users), utils.M{"users": users})
}

// CreateFollowEntry seeds an empty follow document for a new user.
func CreateFollowEntry(ctx context.Context, userID string) error {
	_, err := db.FollowingsCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$setOnInsert": bson.M{"userid": userID}},
		options.Update().SetUpsert(true),
	)
	return err
}
