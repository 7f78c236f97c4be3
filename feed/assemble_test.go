package feed

import (
	"testing"
	"time"

	"finstagram/models"
)

func user(id string, active bool) models.User {
	return models.User{UserID: id, Username: "user_" + id, IsActive: active}
}

func post(id, owner string, createdAt time.Time) models.Post {
	return models.Post{PostID: id, UserID: owner, CreatedAt: createdAt}
}

func TestFilterActiveDropsDeactivatedFollowees(t *testing.T) {
	followees := []models.User{
		user("u1", true),
		user("u2", false),
		user("u3", true),
	}

	got := FilterActive(followees)
	if len(got) != 2 || got[0] != "u1" || got[1] != "u3" {
		t.Fatalf("FilterActive = %v, want [u1 u3]", got)
	}

	if got := FilterActive(nil); len(got) != 0 {
		t.Fatalf("FilterActive(nil) = %v, want empty", got)
	}
}

func TestSortPostsNewestFirst(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	posts := []models.Post{
		post("a", "u1", base),
		post("c", "u1", base.Add(2*time.Hour)),
		post("b", "u2", base.Add(time.Hour)),
	}

	SortPosts(posts)

	want := []string{"c", "b", "a"}
	for i, id := range want {
		if posts[i].PostID != id {
			t.Fatalf("position %d: got %s, want %s", i, posts[i].PostID, id)
		}
	}
}

func TestSortPostsTiebreakIsDeterministic(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for n := 0; n < 10; n++ {
		posts := []models.Post{
			post("p2", "u1", base),
			post("p9", "u2", base),
			post("p5", "u3", base),
		}
		SortPosts(posts)

		want := []string{"p9", "p5", "p2"}
		for i, id := range want {
			if posts[i].PostID != id {
				t.Fatalf("position %d: got %s, want %s", i, posts[i].PostID, id)
			}
		}
	}
}

func TestPaginateWindows(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var posts []models.Post
	for i := 0; i < 25; i++ {
		posts = append(posts, post(string(rune('a'+i)), "u1", base.Add(time.Duration(i)*time.Minute)))
	}

	page2 := Paginate(posts, 10, 10)
	if len(page2) != 10 {
		t.Fatalf("page 2 length = %d, want 10", len(page2))
	}
	if page2[0].PostID != posts[10].PostID {
		t.Fatalf("page 2 starts at %s, want %s", page2[0].PostID, posts[10].PostID)
	}

	tail := Paginate(posts, 20, 10)
	if len(tail) != 5 {
		t.Fatalf("last page length = %d, want 5", len(tail))
	}

	past := Paginate(posts, 30, 10)
	if len(past) != 0 {
		t.Fatalf("page past the end length = %d, want 0", len(past))
	}
}
