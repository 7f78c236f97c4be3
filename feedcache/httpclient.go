package feedcache

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"finstagram/models"
)

// HTTPRequester talks to the engagement endpoints using the server's
// response envelope.
type HTTPRequester struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewHTTPRequester(baseURL, token string) *HTTPRequester {
	return &HTTPRequester{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope struct {
	Status string `json:"status"`
	Data   struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Likers []models.Liker `json:"likers"`
	} `json:"data"`
}

func (h *HTTPRequester) do(path string) (*envelope, error) {
	req, err := http.NewRequest(http.MethodGet, h.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if h.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.Token)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	if env.Status != "success" {
		if env.Data.Error != nil {
			return nil, fmt.Errorf("server: %s", env.Data.Error.Message)
		}
		return nil, fmt.Errorf("server: status %d", resp.StatusCode)
	}
	return &env, nil
}

func (h *HTTPRequester) Like(postID string) error {
	_, err := h.do("/api/v1/posts/" + postID + "/like")
	return err
}

func (h *HTTPRequester) Unlike(postID string) error {
	_, err := h.do("/api/v1/posts/" + postID + "/unlike")
	return err
}

// FetchLikers is a LikerFetcher backed by the likedBy endpoint.
func (h *HTTPRequester) FetchLikers(postID string) ([]models.Liker, error) {
	env, err := h.do("/api/v1/posts/" + postID + "/likedBy")
	if err != nil {
		return nil, err
	}
	return env.Data.Likers, nil
}
