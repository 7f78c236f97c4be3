package feed

import (
	"sort"

	"finstagram/models"
)

// FilterActive reduces a followee list to the ids whose activity flag is
// set. Deactivated users disappear from every follower's timeline at the
// next fetch; there is no cached exemption.
func FilterActive(followees []models.User) []string {
	ids := make([]string, 0, len(followees))
	for _, u := range followees {
		if u.IsActive {
			ids = append(ids, u.UserID)
		}
	}
	return ids
}

// SortPosts orders posts newest first. Creation-time ties break on post id
// descending so repeated queries return the same order. This is the same
// ordering the timeline query pushes into the database as its sort
// document; it is kept here as the reference for that contract.
func SortPosts(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].PostID > posts[j].PostID
	})
}

// Paginate returns the page slice for a skip/limit window. Windows past the
// end yield an empty slice, not an error. Mirrors the skip/limit the
// timeline query pushes into the database.
func Paginate(posts []models.Post, skip, limit int) []models.Post {
	if skip >= len(posts) {
		return []models.Post{}
	}
	end := skip + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[skip:end]
}
