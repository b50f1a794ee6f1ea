package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/gate/internal/gate/service"
	"github.com/aussiebroadwan/gate/pkg/gatesdk"
	"github.com/aussiebroadwan/gate/pkg/httpx"
	"github.com/aussiebroadwan/gate/pkg/slogx"
)

type ResumeHandler struct {
	Gateway *service.Gateway
}

// ServeHTTP godoc
//
//	@Summary		Resume Action
//	@Description	Redeems a resume token and retries the parked action. The token is spent even when the action is still blocked.
//	@Tags			Tools
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.ResumeRequest	true	"resume_token"
//	@Success		200		{object}	gatesdk.ResumeResponse	"executed or still_blocked"
//	@Failure		400		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	httpx.ErrorResponse		"resume_token not found or already used"
//	@Failure		500		{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/v1/actions/resume [post].
func (h *ResumeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req gatesdk.ResumeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, gatesdk.ErrorCodeInvalidRequest, "Invalid JSON in request body")
		return
	}

	out, err := h.Gateway.Resume(ctx, req.ResumeToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResumeTokenNotFound):
			httpx.WriteError(w, http.StatusNotFound, gatesdk.ErrorCodeNotFound, service.ErrResumeTokenNotFound.Error())
		case errors.Is(err, service.ErrUnknownAction):
			// The action was removed after the token was issued.
			httpx.WriteError(w, http.StatusNotFound, gatesdk.ErrorCodeUnknownAction, err.Error())
		case errors.Is(err, service.ErrInvalidActionArgs):
			httpx.WriteError(w, http.StatusBadRequest, gatesdk.ErrorCodeInvalidRequest, err.Error())
		default:
			log.Error("failed to resume action", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, gatesdk.ErrorCodeServerError, "Failed to resume action")
		}
		return
	}

	resp := gatesdk.ResumeResponse{
		Status:   string(out.Status),
		ToolName: out.ActionName,
		Result:   out.Result,
	}
	if c := out.Connection; c != nil {
		resp.Detail = &gatesdk.ConnectionDetail{
			RequiresConnection: true,
			Channel:            c.Channel,
			Prompt:             c.Prompt,
			Fields:             toFieldSpecs(c.Fields),
		}
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
