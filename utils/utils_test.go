package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"finstagram/apperrors"
)

func requestWithQuery(t *testing.T, query string) *http.Request {
	t.Helper()
	r, err := http.NewRequest(http.MethodGet, "/api/v1/timeline?"+query, nil)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestParsePaginationDefaults(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"empty", "", 1, 10},
		{"valid", "page=3&limit=25", 3, 25},
		{"non-numeric", "page=abc&limit=xyz", 1, 10},
		{"zero", "page=0&limit=0", 1, 10},
		{"negative", "page=-2&limit=-5", 1, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := ParsePagination(requestWithQuery(t, tc.query))
			if p.Page != tc.wantPage || p.Limit != tc.wantLimit {
				t.Fatalf("got page=%d limit=%d, want page=%d limit=%d",
					p.Page, p.Limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestPaginationSkip(t *testing.T) {
	p := Pagination{Page: 3, Limit: 10}
	if p.Skip() != 20 {
		t.Fatalf("Skip() = %d, want 20", p.Skip())
	}
}

func TestRespondResultsEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	RespondResults(w, http.StatusOK, 2, M{"posts": []string{"a", "b"}})

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}

	if body["status"] != "success" {
		t.Fatalf("status = %v, want success", body["status"])
	}
	if body["results"] != float64(2) {
		t.Fatalf("results = %v, want 2", body["results"])
	}
	if _, ok := body["data"].(map[string]any)["posts"]; !ok {
		t.Fatal("data.posts missing")
	}
}

func TestRespondErrEnvelopeAndStatus(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
	}{
		{apperrors.Validationf("bad input"), http.StatusBadRequest},
		{apperrors.NotFoundf("gone"), http.StatusNotFound},
		{apperrors.Forbiddenf("nope"), http.StatusForbidden},
		{apperrors.Conflictf("again"), http.StatusConflict},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		RespondErr(w, tc.err)

		if w.Code != tc.wantStatus {
			t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
		}

		var body struct {
			Status string `json:"status"`
			Data   struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.Status != "error" {
			t.Fatalf("status field = %q, want error", body.Status)
		}
		if body.Data.Error.Message == "" {
			t.Fatal("data.error.message is empty")
		}
	}
}
