package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
	"github.com/aussiebroadwan/gate/internal/gate/service"
	"github.com/aussiebroadwan/gate/internal/gate/shield"
	"github.com/aussiebroadwan/gate/pkg/cryptox"
	"github.com/aussiebroadwan/gate/pkg/eventbus"
	"github.com/aussiebroadwan/gate/pkg/gatesdk"
	"github.com/aussiebroadwan/gate/pkg/httpx"
	"github.com/aussiebroadwan/gate/pkg/slogx"
)

// ToolsHandler runs a tool through the shield and the gateway.
type ToolsHandler struct {
	Gateway *service.Gateway
	Shield  *shield.Shield
	Events  eventbus.Publisher
}

// ServeHTTP godoc
//
//	@Summary		Invoke Tool
//	@Description	Runs a named action. If its channel is not connected the response asks for credentials and carries a one-time resume_token.
//	@Description	Results are degraded for sessions above the clear threat tier.
//	@Tags			Tools
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			name	path		string					true	"Action name"
//	@Param			request	body		gatesdk.ToolRequest		true	"args, session_id, user_id"
//	@Success		200		{object}	gatesdk.ToolResponse	"executed result or connection prompt"
//	@Header			200		{string}	X-Threat-Level			"clear, elevated, high or critical"
//	@Failure		400		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	httpx.ErrorResponse		"unknown_action"
//	@Failure		500		{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/v1/tools/{name} [post].
func (h *ToolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("name")

	var req gatesdk.ToolRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, gatesdk.ErrorCodeInvalidRequest, "Invalid JSON in request body")
		return
	}

	userID := callerID(r, req.UserID)
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	log := slogx.FromContext(ctx).With(slog.String("session_id", sessionID), slog.String("tool", name))

	// 1. Assess the session.
	assessment := h.Shield.Evaluate(domain.RequestSignature{
		SessionID:  sessionID,
		Timestamp:  time.Now(),
		Intent:     name,
		Args:       req.Args,
		OriginHash: cryptox.HashOrigin(httpx.IPKeyExtractor(r)),
	})
	w.Header().Set(gatesdk.ThreatLevelHeader, assessment.Tier.String())

	if assessment.Tier != domain.TierClear {
		h.publish(r, sessionID, name, assessment)
	}

	// 2. Execute.
	outcome, err := h.Gateway.Execute(ctx, userID, sessionID, name, req.Args)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownAction):
			httpx.WriteError(w, http.StatusNotFound, gatesdk.ErrorCodeUnknownAction, err.Error())
		case errors.Is(err, service.ErrInvalidActionArgs):
			httpx.WriteError(w, http.StatusBadRequest, gatesdk.ErrorCodeInvalidRequest, err.Error())
		default:
			log.Error("tool execution failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, gatesdk.ErrorCodeServerError, "Failed to execute tool")
		}
		return
	}

	// 3. Respond, degrading the result for suspicious sessions.
	resp := gatesdk.ToolResponse{
		Status:      string(outcome.Status),
		ThreatLevel: assessment.Tier.String(),
	}
	if c := outcome.Connection; c != nil {
		resp.RequiresConnection = true
		resp.Channel = c.Channel
		resp.Prompt = c.Prompt
		resp.Fields = toFieldSpecs(c.Fields)
		resp.ResumeToken = c.ResumeToken
	} else {
		resp.Result = shield.Degrade(outcome.Result, assessment)
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// publish never fails the request; a lost event is only logged.
func (h *ToolsHandler) publish(r *http.Request, sessionID, intent string, a domain.ThreatAssessment) {
	log := slogx.FromContext(r.Context())

	ev := eventbus.ThreatEvent{
		SessionID:  sessionID,
		OriginHash: cryptox.HashOrigin(httpx.IPKeyExtractor(r)),
		Intent:     intent,
		Tier:       a.Tier.String(),
		Score:      a.Score,
		Flags:      a.Flags,
		At:         time.Now().UTC(),
	}
	if err := h.Events.Publish(r.Context(), ev); err != nil {
		log.Warn("failed to publish threat event", "error", err)
		return
	}
	log.Info("threat escalation",
		slog.String("tier", ev.Tier),
		slog.Int("score", ev.Score),
		slog.Any("flags", ev.Flags),
	)
}
