package posts

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finstagram/apperrors"
	"finstagram/db"
	"finstagram/likes"
	"finstagram/models"
	"finstagram/photos"
	"finstagram/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PhotoDir is where ingested post photos land; the router serves it under
// /img/posts.
var PhotoDir = photoDirFromEnv()

var ingestor = photos.NewIngestor(PhotoDir)

func photoDirFromEnv() string {
	if dir := os.Getenv("POSTPIC_DIR"); dir != "" {
		return dir
	}
	return "static/postpic"
}

func findPost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	err := db.PostsCollection.FindOne(ctx, bson.M{"postid": postID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFoundf("No post found with this id.")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch post", err)
	}
	return &post, nil
}

// CreatePost handles POST /api/v1/posts (multipart: photo, caption)
func CreatePost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(photos.MaxUploadBytes + 1<<20); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	var owner models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&owner); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ingested, err := ingestor.IngestFromRequest(r, userID)
	if err != nil {
		utils.RespondErr(w, err)
		return
	}

	post := models.Post{
		PostID:    utils.GenerateRandomString(12),
		UserID:    userID,
		Username:  owner.Username,
		Caption:   strings.TrimSpace(r.FormValue("caption")),
		Photo:     ingested.Photo,
		Width:     ingested.Width,
		Height:    ingested.Height,
		CreatedAt: time.Now(),
	}

	if _, err := db.PostsCollection.InsertOne(ctx, post); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	// Record the owner's posting activity.
	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$set": bson.M{"last_post_at": post.CreatedAt}},
	)
	if err != nil {
		log.Printf("failed to update last_post_at for %s: %v", userID, err)
	}

	utils.RespondSuccess(w, http.StatusCreated, utils.M{"post": post})
}

// GetPost handles GET /api/v1/posts/:postid
func GetPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	post, err := findPost(ctx, ps.ByName("postid"))
	if err != nil {
		utils.RespondErr(w, err)
		return
	}

	likedByMe, err := likes.HasLiked(ctx, post.PostID, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondErr(w, err)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{
		"post": models.FeedPost{Post: *post, LikedByMe: likedByMe},
	})
}

// EditPost handles PATCH /api/v1/posts/:postid — caption only, owner only.
func EditPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Caption string `json:"caption"`
		Photo   string `json:"photo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Photo != "" {
		utils.RespondErr(w, apperrors.Validationf("You can only edit captions in a post."))
		return
	}

	post, err := findPost(ctx, ps.ByName("postid"))
	if err != nil {
		utils.RespondErr(w, err)
		return
	}
	if post.UserID != userID {
		utils.RespondErr(w, apperrors.Forbiddenf("You do not have permission to edit this post."))
		return
	}

	var updated models.Post
	err = db.PostsCollection.FindOneAndUpdate(ctx,
		bson.M{"postid": post.PostID},
		bson.M{"$set": bson.M{"caption": strings.TrimSpace(input.Caption)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{"post": updated})
}

// DeletePost handles DELETE /api/v1/posts/:postid — owner only; cascades
// the post's like-set, trending score, and stored image.
func DeletePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	post, err := findPost(ctx, ps.ByName("postid"))
	if err != nil {
		utils.RespondErr(w, err)
		return
	}
	if post.UserID != userID {
		utils.RespondErr(w, apperrors.Forbiddenf("You do not have permission to delete this post."))
		return
	}

	if _, err := db.PostsCollection.DeleteOne(ctx, bson.M{"postid": post.PostID}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	if err := likes.DeleteForPost(ctx, post.PostID); err != nil {
		log.Printf("like cascade failed for %s: %v", post.PostID, err)
	}

	// Stored image removal is best effort.
	if name := filepath.Base(post.Photo); name != "" && name != "." {
		if err := os.Remove(filepath.Join(PhotoDir, name)); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove image for %s: %v", post.PostID, err)
		}
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{"deleted": true})
}
