package routes

import (
	"net/http"

	"finstagram/auth"
	"finstagram/feed"
	"finstagram/likes"
	"finstagram/middleware"
	"finstagram/posts"
	"finstagram/profile"
	"finstagram/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/img/posts/*filepath", http.Dir(posts.PhotoDir))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/v1/auth/register", rl.Limit(auth.Register))
	router.POST("/api/v1/auth/login", rl.Limit(auth.Login))
	router.POST("/api/v1/auth/logout", middleware.Authenticate(auth.Logout))
}

func AddPostRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/v1/posts", rl.Limit(middleware.Authenticate(posts.CreatePost)))
	router.GET("/api/v1/posts/:postid", middleware.OptionalAuth(posts.GetPost))
	router.PATCH("/api/v1/posts/:postid", middleware.Authenticate(posts.EditPost))
	router.DELETE("/api/v1/posts/:postid", middleware.Authenticate(posts.DeletePost))
}

func AddLikeRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/v1/posts/:postid/like", rl.Limit(middleware.Authenticate(likes.LikePost)))
	router.GET("/api/v1/posts/:postid/unlike", rl.Limit(middleware.Authenticate(likes.UnlikePost)))
	router.GET("/api/v1/posts/:postid/likedBy", middleware.OptionalAuth(likes.GetLikedBy))
}

func AddFeedRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/v1/timeline", rl.Limit(middleware.Authenticate(feed.GetTimeline)))
	router.GET("/api/v1/trending", rl.Limit(middleware.OptionalAuth(feed.GetTrending)))
}

func AddProfileRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/v1/follow/:id", middleware.Authenticate(profile.Follow))
	router.POST("/api/v1/unfollow/:id", middleware.Authenticate(profile.Unfollow))
	router.GET("/api/v1/users/following", middleware.Authenticate(profile.GetFollowing))
	router.GET("/api/v1/users/followers", middleware.Authenticate(profile.GetFollowers))
	router.POST("/api/v1/account/deactivate", middleware.Authenticate(profile.Deactivate))
	router.POST("/api/v1/account/reactivate", middleware.Authenticate(profile.Reactivate))
	router.GET("/api/v1/profiles/:username", rl.Limit(profile.GetUserProfile))
}
