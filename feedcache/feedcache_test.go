package feedcache

import (
	"errors"
	"testing"
	"time"

	"finstagram/models"
)

type toggleCall struct {
	postID string
	liking bool
	reply  chan error
}

// fakeRequester hands every toggle to the test through a channel so the
// test controls when and in what order server responses arrive.
type fakeRequester struct {
	calls chan toggleCall
}

func newFakeRequester() *fakeRequester {
	return &fakeRequester{calls: make(chan toggleCall, 10)}
}

func (f *fakeRequester) roundTrip(postID string, liking bool) error {
	c := toggleCall{postID: postID, liking: liking, reply: make(chan error)}
	f.calls <- c
	return <-c.reply
}

func (f *fakeRequester) Like(postID string) error   { return f.roundTrip(postID, true) }
func (f *fakeRequester) Unlike(postID string) error { return f.roundTrip(postID, false) }

func (f *fakeRequester) next(t *testing.T) toggleCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for server call")
		return toggleCall{}
	}
}

func feedPost(id string, likes int, likedByMe bool) models.FeedPost {
	return models.FeedPost{
		Post:      models.Post{PostID: id, UserID: "author", Likes: likes},
		LikedByMe: likedByMe,
	}
}

// settled returns a channel that receives once per completed toggle
// dispatch, by riding the best-effort liker refresh that runs after each
// resolution.
func settled(s *Store) chan string {
	ch := make(chan string, 10)
	s.SetLikerFetcher(func(postID string) ([]models.Liker, error) {
		ch <- postID
		return nil, errors.New("refresh unavailable")
	})
	return ch
}

func waitSettled(t *testing.T, ch chan string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for toggle to settle")
	}
}

func assertEngagement(t *testing.T, s *Store, collection, postID string, wantLiked bool, wantLikes int) {
	t.Helper()
	for _, fp := range s.Get(collection) {
		if fp.PostID != postID {
			continue
		}
		if fp.LikedByMe != wantLiked || fp.Likes != wantLikes {
			t.Fatalf("%s: got likedByMe=%v likes=%d, want likedByMe=%v likes=%d",
				collection, fp.LikedByMe, fp.Likes, wantLiked, wantLikes)
		}
		return
	}
	t.Fatalf("post %s not found in collection %s", postID, collection)
}

func TestOptimisticToggleUpdatesEveryCollection(t *testing.T) {
	req := newFakeRequester()
	store := NewStore(req)
	done := settled(store)

	store.PutPage("timeline", []models.FeedPost{feedPost("p1", 3, false), feedPost("p2", 0, false)})
	store.PutPage("trending", []models.FeedPost{feedPost("p1", 3, false)})

	if !store.ToggleLike("p1") {
		t.Fatal("ToggleLike returned false for cached post")
	}

	// Both collections must show the flip before any server response.
	assertEngagement(t, store, "timeline", "p1", true, 4)
	assertEngagement(t, store, "trending", "p1", true, 4)

	call := req.next(t)
	if call.postID != "p1" || !call.liking {
		t.Fatalf("unexpected server call: %+v", call)
	}
	call.reply <- nil
	waitSettled(t, done)

	// Success leaves the optimistic state in place.
	assertEngagement(t, store, "timeline", "p1", true, 4)
	assertEngagement(t, store, "trending", "p1", true, 4)
}

func TestFailureRollsBackAllCollectionsUniformly(t *testing.T) {
	req := newFakeRequester()
	store := NewStore(req)
	done := settled(store)

	store.PutPage("timeline", []models.FeedPost{feedPost("p1", 3, false)})
	store.PutPage("trending", []models.FeedPost{feedPost("p1", 3, false)})

	store.ToggleLike("p1")
	assertEngagement(t, store, "timeline", "p1", true, 4)

	call := req.next(t)
	call.reply <- errors.New("server rejected")
	waitSettled(t, done)

	assertEngagement(t, store, "timeline", "p1", false, 3)
	assertEngagement(t, store, "trending", "p1", false, 3)
}

func TestRapidDoubleToggleKeepsLastIntent(t *testing.T) {
	for _, firstReplyFirst := range []bool{true, false} {
		req := newFakeRequester()
		store := NewStore(req)
		done := settled(store)

		store.PutPage("timeline", []models.FeedPost{feedPost("p1", 3, false)})

		store.ToggleLike("p1") // like
		first := req.next(t)

		store.ToggleLike("p1") // unlike, before the like response arrives
		second := req.next(t)

		assertEngagement(t, store, "timeline", "p1", false, 3)

		if firstReplyFirst {
			first.reply <- errors.New("too slow")
			waitSettled(t, done)
			second.reply <- nil
			waitSettled(t, done)
		} else {
			second.reply <- nil
			waitSettled(t, done)
			first.reply <- errors.New("too slow")
			waitSettled(t, done)
		}

		// The stale like's failure must not clobber the newer unlike.
		assertEngagement(t, store, "timeline", "p1", false, 3)
	}
}

func TestLikerRefreshIsBestEffort(t *testing.T) {
	req := newFakeRequester()
	store := NewStore(req)

	fetched := make(chan string, 1)
	store.SetLikerFetcher(func(postID string) ([]models.Liker, error) {
		fetched <- postID
		return []models.Liker{{UserID: "u2", Username: "second"}}, nil
	})

	store.PutPage("timeline", []models.FeedPost{feedPost("p1", 0, false)})
	store.ToggleLike("p1")

	req.next(t).reply <- nil

	select {
	case <-fetched:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for liker refresh")
	}

	deadline := time.Now().Add(1 * time.Second)
	for time.Now().Before(deadline) {
		if likers := store.Likers("p1"); len(likers) == 1 && likers[0].UserID == "u2" {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("liker list was not refreshed")
}

func TestPutPageKeepsInFlightOptimisticState(t *testing.T) {
	req := newFakeRequester()
	store := NewStore(req)
	done := settled(store)

	store.PutPage("timeline", []models.FeedPost{feedPost("p1", 3, false)})
	store.ToggleLike("p1")
	call := req.next(t)

	// A page fetched before the toggle settles carries the stale server
	// snapshot; it must not clobber the in-flight optimistic state.
	store.PutPage("trending", []models.FeedPost{feedPost("p1", 3, false)})
	assertEngagement(t, store, "trending", "p1", true, 4)

	call.reply <- nil
	waitSettled(t, done)
	assertEngagement(t, store, "trending", "p1", true, 4)
}

func TestToggleUnknownPost(t *testing.T) {
	store := NewStore(newFakeRequester())
	if store.ToggleLike("missing") {
		t.Fatal("ToggleLike should return false for an uncached post")
	}
}

func TestUnlikeFloorsAtZero(t *testing.T) {
	req := newFakeRequester()
	store := NewStore(req)

	store.PutPage("timeline", []models.FeedPost{feedPost("p1", 0, true)})
	store.ToggleLike("p1")

	assertEngagement(t, store, "timeline", "p1", false, 0)
	req.next(t).reply <- nil
}
