// Package feedcache is the client-side half of the engagement coordinator.
// It holds named post collections (timeline, trending) over a single shared
// engagement slot per post identity, applies like toggles optimistically,
// and rolls them back uniformly when the server rejects them.
package feedcache

import (
	"sync"

	"finstagram/models"
)

// Engagement is the viewer-relative state of one post: the pair every
// collection holding that post must agree on.
type Engagement struct {
	LikedByMe bool
	Likes     int
}

// Requester performs the server round trip for a toggle.
type Requester interface {
	Like(postID string) error
	Unlike(postID string) error
}

// LikerFetcher refreshes the authoritative liker list after a toggle
// settles. Its failure never affects the toggled state.
type LikerFetcher func(postID string) ([]models.Liker, error)

type pendingToggle struct {
	seq  uint64
	prev Engagement
}

// Store keeps the cached collections and the per-post engagement slots.
// Collections hold post snapshots by identity; engagement state lives in
// the slot, so a toggle or rollback is one write no matter how many
// collections display the post.
type Store struct {
	mu          sync.Mutex
	collections map[string][]string
	posts       map[string]models.Post
	engagement  map[string]Engagement
	seq         map[string]uint64
	pending     map[string]pendingToggle
	likers      map[string][]models.Liker

	requester Requester
	fetchers  LikerFetcher
}

func NewStore(requester Requester) *Store {
	return &Store{
		collections: make(map[string][]string),
		posts:       make(map[string]models.Post),
		engagement:  make(map[string]Engagement),
		seq:         make(map[string]uint64),
		pending:     make(map[string]pendingToggle),
		likers:      make(map[string][]models.Liker),
		requester:   requester,
	}
}

// SetLikerFetcher enables the best-effort liker refresh after toggles.
func (s *Store) SetLikerFetcher(f LikerFetcher) {
	s.mu.Lock()
	s.fetchers = f
	s.mu.Unlock()
}

// PutPage replaces a named collection with a freshly fetched page. Server
// values win for the engagement slot unless a toggle is still in flight
// for that post, in which case the optimistic state is kept.
func (s *Store) PutPage(collection string, page []models.FeedPost) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(page))
	for _, fp := range page {
		ids = append(ids, fp.PostID)
		s.posts[fp.PostID] = fp.Post
		if _, inFlight := s.pending[fp.PostID]; !inFlight {
			s.engagement[fp.PostID] = Engagement{LikedByMe: fp.LikedByMe, Likes: fp.Likes}
		}
	}
	s.collections[collection] = ids
}

// Get renders a collection, resolving each post's engagement state through
// its shared slot.
func (s *Store) Get(collection string) []models.FeedPost {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.collections[collection]
	out := make([]models.FeedPost, 0, len(ids))
	for _, id := range ids {
		post, ok := s.posts[id]
		if !ok {
			continue
		}
		slot := s.engagement[id]
		post.Likes = slot.Likes
		out = append(out, models.FeedPost{Post: post, LikedByMe: slot.LikedByMe})
	}
	return out
}

// Engagement returns the shared slot for a post.
func (s *Store) Engagement(postID string) (Engagement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.engagement[postID]
	return e, ok
}

// Likers returns the last refreshed liker list for a post.
func (s *Store) Likers(postID string) []models.Liker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likers[postID]
}

// ToggleLike flips the post's engagement slot before any network traffic,
// then dispatches the matching server request. Every collection holding the
// post sees the flip at once because they render through the slot. Returns
// false when the post is not cached anywhere.
func (s *Store) ToggleLike(postID string) bool {
	s.mu.Lock()
	slot, ok := s.engagement[postID]
	if !ok {
		s.mu.Unlock()
		return false
	}

	prev := slot
	next := Engagement{LikedByMe: !slot.LikedByMe}
	if next.LikedByMe {
		next.Likes = slot.Likes + 1
	} else {
		next.Likes = slot.Likes - 1
		if next.Likes < 0 {
			next.Likes = 0
		}
	}
	s.engagement[postID] = next

	s.seq[postID]++
	seq := s.seq[postID]
	s.pending[postID] = pendingToggle{seq: seq, prev: prev}
	s.mu.Unlock()

	go s.dispatch(postID, seq, next.LikedByMe)
	return true
}

func (s *Store) dispatch(postID string, seq uint64, liking bool) {
	var err error
	if liking {
		err = s.requester.Like(postID)
	} else {
		err = s.requester.Unlike(postID)
	}
	s.resolve(postID, seq, err)
	s.refreshLikers(postID)
}

// resolve settles one toggle. A response whose sequence is no longer the
// newest for the post is discarded so a late failure can never clobber a
// newer toggle's optimistic state. Rollback therefore runs at most once
// per toggle, and only while that toggle is still current.
func (s *Store) resolve(postID string, seq uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[postID]
	if !ok || p.seq != seq {
		return
	}
	delete(s.pending, postID)

	if err != nil {
		s.engagement[postID] = p.prev
	}
}

// refreshLikers is best effort; failures are silently ignored.
func (s *Store) refreshLikers(postID string) {
	s.mu.Lock()
	fetch := s.fetchers
	s.mu.Unlock()
	if fetch == nil {
		return
	}

	likers, err := fetch(postID)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.likers[postID] = likers
	s.mu.Unlock()
}
