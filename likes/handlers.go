package likes

import (
	"context"
	"net/http"
	"time"

	"finstagram/utils"

	"github.com/julienschmidt/httprouter"
)

// LikePost handles GET /api/v1/posts/:postid/like
func LikePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	count, err := Like(ctx, ps.ByName("postid"), userID)
	if err != nil {
		utils.RespondErr(w, err)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{"liked": true, "likes": count})
}

// UnlikePost handles GET /api/v1/posts/:postid/unlike
func UnlikePost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	count, err := Unlike(ctx, ps.ByName("postid"), userID)
	if err != nil {
		utils.RespondErr(w, err)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{"liked": false, "likes": count})
}

// GetLikedBy handles GET /api/v1/posts/:postid/likedBy
func GetLikedBy(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	likers, err := ListLikers(ctx, ps.ByName("postid"))
	if err != nil {
		utils.RespondErr(w, err)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{"likers": likers})
}
