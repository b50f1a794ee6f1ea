package gatesdk

import (
	"net/http"
	"strings"
	"time"
)

// Client talks to one gate service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is sent as a bearer token when non-empty.
	Token string

	// UserID is sent as user_id when the service does not authenticate
	// callers. It is ignored by a service running in jwt mode.
	UserID string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}
