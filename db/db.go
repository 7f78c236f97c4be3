package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection       *mongo.Collection
	PostsCollection      *mongo.Collection
	LikesCollection      *mongo.Collection
	FollowingsCollection *mongo.Collection
	Client               *mongo.Client
)

// Init connects to MongoDB and creates the collections and indexes the
// engagement invariants rely on. Called once from main.
func Init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbname := os.Getenv("MONGO_DB")
	if dbname == "" {
		dbname = "finstagram"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	UserCollection = Client.Database(dbname).Collection("users")
	PostsCollection = Client.Database(dbname).Collection("posts")
	LikesCollection = Client.Database(dbname).Collection("likes")
	FollowingsCollection = Client.Database(dbname).Collection("followings")

	if err := ensureIndexes(Client); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
}

// The unique (postid, userid) index on likes is what turns a concurrent
// duplicate like into a write conflict instead of a double count.
func ensureIndexes(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := LikesCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "postid", Value: 1}, {Key: "userid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	// Timeline queries sort on (created_at desc, postid desc).
	_, err = PostsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "postid", Value: -1}},
	})
	return err
}
