package http

import "net/http"

// DefaultUserID is the caller of an unauthenticated request that names no
// user.
const DefaultUserID = "default"

// DefaultSessionID is used for tool calls that carry no session.
const DefaultSessionID = "direct"

// callerID prefers the authenticated subject. Without authentication the
// caller is whoever the request claims to be.
func callerID(r *http.Request, claimed string) string {
	if id, ok := userIDFromContext(r); ok {
		return id
	}
	if claimed != "" {
		return claimed
	}
	return DefaultUserID
}
