package gatesdk

import (
	"context"
	"net/http"
	"net/url"
)

// ConfigureChannel stores credentials for a channel, replacing any
// previous configuration.
func (c *Client) ConfigureChannel(ctx context.Context, req ConfigureChannelRequest) (*ConfigureChannelResponse, error) {
	if req.UserID == "" {
		req.UserID = c.UserID
	}

	var out ConfigureChannelResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/v1/channels/configure", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListChannels returns the status of every channel the caller has saved.
func (c *Client) ListChannels(ctx context.Context) (ChannelsResponse, error) {
	path := "/v1/channels"
	if c.UserID != "" {
		path += "?" + url.Values{"user_id": {c.UserID}}.Encode()
	}

	out := ChannelsResponse{}
	if _, err := c.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCatalog returns the credential fields of every channel.
func (c *Client) GetCatalog(ctx context.Context) (*CatalogResponse, error) {
	var out CatalogResponse
	if _, err := c.doJSON(ctx, http.MethodGet, "/v1/channels/catalog", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
