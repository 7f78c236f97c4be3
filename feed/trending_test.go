package feed

import (
	"context"
	"testing"

	"finstagram/db"
	"finstagram/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestRankedPostIDsFallsBackWhenRedisHasNoScores(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty sorted set ranks from the likes collection", func(mt *mtest.T) {
		db.LikesCollection = mt.Coll
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "finstagram.likes", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "p2"}, {Key: "count", Value: 5}},
				bson.D{{Key: "_id", Value: "p1"}, {Key: "count", Value: 3}},
			),
		)

		// The trending key holds no scores here, so the rank must come from
		// the aggregation regardless of whether Redis answers.
		ids, err := rankedPostIDs(context.Background(), utils.Pagination{Page: 1, Limit: 10})
		if err != nil {
			mt.Fatalf("rankedPostIDs failed: %v", err)
		}
		if len(ids) != 2 || ids[0] != "p2" || ids[1] != "p1" {
			mt.Fatalf("ids = %v, want [p2 p1]", ids)
		}
	})
}
