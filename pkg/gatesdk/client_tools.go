package gatesdk

import (
	"context"
	"net/http"
	"net/url"
)

// ThreatLevelHeader carries the caller's threat tier on tool responses.
const ThreatLevelHeader = "X-Threat-Level"

// InvokeTool runs a named tool.
func (c *Client) InvokeTool(ctx context.Context, name string, req ToolRequest) (*ToolResponse, error) {
	if req.UserID == "" {
		req.UserID = c.UserID
	}
	if req.Args == nil {
		req.Args = map[string]any{}
	}

	var out ToolResponse
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/tools/"+url.PathEscape(name), req, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	if out.ThreatLevel == "" {
		out.ThreatLevel = resp.Header.Get(ThreatLevelHeader)
	}
	return &out, nil
}

// Resume redeems a resume token. The token is spent even when the result
// is still_blocked.
func (c *Client) Resume(ctx context.Context, token string) (*ResumeResponse, error) {
	var out ResumeResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/v1/actions/resume", ResumeRequest{ResumeToken: token}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
