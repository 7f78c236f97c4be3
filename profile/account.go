package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"finstagram/apperrors"
	"finstagram/db"
	"finstagram/models"
	"finstagram/rdx"
	"finstagram/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Deactivate handles POST /api/v1/account/deactivate
//
// Clearing the activity flag removes the user's posts from every
// follower's timeline on their next fetch; no cached page is exempt.
func Deactivate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	setActivityFlag(w, r, false)
}

// Reactivate handles POST /api/v1/account/reactivate
func Reactivate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	setActivityFlag(w, r, true)
}

func setActivityFlag(w http.ResponseWriter, r *http.Request, active bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var updated models.User
	err := db.UserCollection.FindOneAndUpdate(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"is_active": active}},
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondErr(w, apperrors.NotFoundf("No user found with this id."))
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update account")
		return
	}

	if err := invalidateCachedProfile(updated.Username); err != nil {
		log.Printf("profile cache invalidation failed for %s: %v", updated.Username, err)
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{"is_active": active})
}

// GetUserProfile handles GET /api/v1/profiles/:username — public profile,
// served from the Redis cache when warm.
func GetUserProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	username := ps.ByName("username")

	if cached, err := rdx.RdxGet("profile:" + username); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondErr(w, apperrors.NotFoundf("No user found with this username."))
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	envelope := utils.M{
		"status": "success",
		"data":   utils.M{"user": user},
	}

	if raw, err := json.Marshal(envelope); err == nil {
		if err := rdx.RdxSet("profile:"+username, string(raw)); err != nil {
			log.Printf("profile cache write failed for %s: %v", username, err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, envelope)
}

func invalidateCachedProfile(username string) error {
	_, err := rdx.RdxDel("profile:" + username)
	return err
}
