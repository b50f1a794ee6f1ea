package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/gate/internal/gate/channels"
	"github.com/aussiebroadwan/gate/internal/gate/service"
	"github.com/aussiebroadwan/gate/pkg/gatesdk"
	"github.com/aussiebroadwan/gate/pkg/httpx"
	"github.com/aussiebroadwan/gate/pkg/slogx"
)

// ChannelsHandler serves the credential vault endpoints.
type ChannelsHandler struct {
	Vault   *service.VaultService
	Catalog *channels.Catalog
}

// HandleConfigure handles POST /v1/channels/configure
//
//	@Summary		Connect Channel
//	@Description	Stores credentials for one channel, replacing any previous configuration. Values are sealed at rest and never returned.
//	@Tags			Channels
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		gatesdk.ConfigureChannelRequest		true	"channel, config, user_id"
//	@Success		200		{object}	gatesdk.ConfigureChannelResponse	"status, channel"
//	@Failure		400		{object}	httpx.ErrorResponse					"error, error_description"
//	@Failure		401		{object}	httpx.ErrorResponse					"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse					"error, error_description"
//	@Router			/v1/channels/configure [post].
func (h *ChannelsHandler) HandleConfigure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req gatesdk.ConfigureChannelRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, gatesdk.ErrorCodeInvalidRequest, "Invalid JSON in request body")
		return
	}

	channel := strings.TrimSpace(req.Channel)
	if channel == "" {
		httpx.WriteError(w, http.StatusBadRequest, gatesdk.ErrorCodeInvalidRequest, "channel is required")
		return
	}

	userID := callerID(r, req.UserID)
	if err := h.Vault.Save(ctx, userID, channel, req.Config); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidChannelRequest):
			httpx.WriteError(w, http.StatusBadRequest, gatesdk.ErrorCodeInvalidRequest, err.Error())
		default:
			log.Error("failed to save channel", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, gatesdk.ErrorCodeServerError, "Failed to save channel")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.ConfigureChannelResponse{
		Status:  gatesdk.StatusConnected,
		Channel: channel,
	})
}

// HandleList handles GET /v1/channels
//
//	@Summary		List Channels
//	@Description	Status and last update of every channel the caller has saved. Configuration is never included.
//	@Tags			Channels
//	@Produce		json
//	@Security		BearerAuth
//	@Param			user_id	query		string						false	"Caller when authentication is off"	default(default)
//	@Success		200		{object}	gatesdk.ChannelsResponse	"channel -> status, updated_at"
//	@Failure		401		{object}	httpx.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse			"error, error_description"
//	@Router			/v1/channels [get].
func (h *ChannelsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.Vault.List(ctx, callerID(r, r.URL.Query().Get("user_id")))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list channels", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, gatesdk.ErrorCodeServerError, "Failed to list channels")
		return
	}

	out := make(gatesdk.ChannelsResponse, len(list))
	for name, info := range list {
		out[name] = gatesdk.ChannelStatus{Status: string(info.Status), UpdatedAt: info.UpdatedAt}
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCatalog handles GET /v1/channels/catalog
//
//	@Summary		Channel Catalog
//	@Description	The credential fields each channel requires.
//	@Tags			Channels
//	@Produce		json
//	@Success		200	{object}	gatesdk.CatalogResponse	"channels"
//	@Router			/v1/channels/catalog [get].
func (h *ChannelsHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	specs := h.Catalog.All()
	out := gatesdk.CatalogResponse{Channels: make([]gatesdk.ChannelSpec, len(specs))}
	for i, s := range specs {
		out.Channels[i] = toChannelSpec(s)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
