package models

import "time"

type Post struct {
	PostID    string    `json:"postid" bson:"postid"`
	UserID    string    `json:"userid" bson:"userid"`
	Username  string    `json:"username" bson:"username"`
	Caption   string    `json:"caption" bson:"caption"`
	Photo     string    `json:"photo" bson:"photo"`
	Width     int       `json:"width" bson:"width"`
	Height    int       `json:"height" bson:"height"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	// Likes mirrors the cardinality of the likes collection for this post.
	// Mutated only through the likes package so it never drifts for longer
	// than one engagement write.
	Likes    int `json:"likes" bson:"likes"`
	Comments int `json:"comments" bson:"comments"`
}

// FeedPost is a Post with the viewer-relative like state embedded, so a
// client can render engagement without a second round trip.
type FeedPost struct {
	Post      `bson:",inline"`
	LikedByMe bool `json:"likedByMe" bson:"-"`
}

type Like struct {
	PostID    string    `json:"postid" bson:"postid"`
	UserID    string    `json:"userid" bson:"userid"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
