package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/gate/internal/gate/channels"
	"github.com/aussiebroadwan/gate/pkg/idx"
	"github.com/aussiebroadwan/gate/pkg/slogx"
)

var ErrInvalidActionArgs = errors.New("invalid action arguments")

// Action names of the built-in messaging actions.
const (
	ActionSendWhatsApp        = "send_whatsapp"
	ActionCallInvestor        = "call_investor"
	ActionSendInstagramDM     = "send_instagram_dm"
	ActionSendFacebookMessage = "send_facebook_message"
	ActionSendEmail           = "send_email"
	ActionPublishListing      = "publish_listing"
)

// Dispatch is one outbound message, already validated.
type Dispatch struct {
	Channel  string
	Action   string
	To       string
	Subject  string
	Body     string
	MediaURL string
}

// Courier hands a dispatch to the provider behind a channel and returns
// the provider's delivery id.
type Courier interface {
	Deliver(ctx context.Context, d Dispatch, creds map[string]string) (string, error)
}

// LogCourier records dispatches without contacting a provider.
type LogCourier struct {
	Logger *slog.Logger
}

func (c LogCourier) Deliver(ctx context.Context, d Dispatch, creds map[string]string) (string, error) {
	log := c.Logger
	if log == nil {
		log = slogx.FromContext(ctx)
	}

	id := idx.New().String()
	log.Info("dispatch recorded",
		slog.String("delivery_id", id),
		slog.String("channel", d.Channel),
		slog.String("action", d.Action),
		slog.Int("body_len", len(d.Body)),
		slog.Bool("media", d.MediaURL != ""),
		slog.Int("credential_fields", len(creds)),
	)
	return id, nil
}

// MessagingActions returns the outreach actions, one per catalog channel.
func MessagingActions(c Courier) []Action {
	return []Action{
		{Name: ActionSendWhatsApp, Channel: channels.WhatsApp, Handler: sendWhatsApp(c)},
		{Name: ActionCallInvestor, Channel: channels.Voice, Handler: callInvestor(c)},
		{Name: ActionSendInstagramDM, Channel: channels.Instagram, Handler: directMessage(c, ActionSendInstagramDM, channels.Instagram)},
		{Name: ActionSendFacebookMessage, Channel: channels.Facebook, Handler: directMessage(c, ActionSendFacebookMessage, channels.Facebook)},
		{Name: ActionSendEmail, Channel: channels.Email, Handler: sendEmail(c)},
		{Name: ActionPublishListing, Channel: channels.Portals, Handler: publishListing(c)},
	}
}

func sendWhatsApp(c Courier) Handler {
	return func(ctx context.Context, inv Invocation) (any, error) {
		to, err := requireString(inv.Args, "to_number")
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(to, "whatsapp:") {
			to = "whatsapp:" + to
		}
		body := optionalString(inv.Args, "message_body",
			fmt.Sprintf("Hi %s, you have a message from your broker.", optionalString(inv.Args, "investor_name", "there")))

		id, err := c.Deliver(ctx, Dispatch{
			Channel:  channels.WhatsApp,
			Action:   ActionSendWhatsApp,
			To:       to,
			Body:     body,
			MediaURL: optionalString(inv.Args, "media_url", ""),
		}, inv.Credentials)
		if err != nil {
			return nil, fmt.Errorf("send whatsapp: %w", err)
		}
		return map[string]any{"status": "sent", "sid": id}, nil
	}
}

func callInvestor(c Courier) Handler {
	return func(ctx context.Context, inv Invocation) (any, error) {
		to, err := requireString(inv.Args, "to_number")
		if err != nil {
			return nil, err
		}
		msg := optionalString(inv.Args, "message",
			fmt.Sprintf("Hi %s, this is your broker with a property update.", optionalString(inv.Args, "investor_name", "there")))

		id, err := c.Deliver(ctx, Dispatch{
			Channel: channels.Voice,
			Action:  ActionCallInvestor,
			To:      to,
			Body:    msg,
		}, inv.Credentials)
		if err != nil {
			return nil, fmt.Errorf("call investor: %w", err)
		}
		return map[string]any{"status": "calling", "sid": id}, nil
	}
}

func directMessage(c Courier, action, channel string) Handler {
	return func(ctx context.Context, inv Invocation) (any, error) {
		to, err := requireString(inv.Args, "recipient_id")
		if err != nil {
			return nil, err
		}
		body, err := requireString(inv.Args, "message_body")
		if err != nil {
			return nil, err
		}

		id, err := c.Deliver(ctx, Dispatch{Channel: channel, Action: action, To: to, Body: body}, inv.Credentials)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", action, err)
		}
		return map[string]any{"status": "sent", "message_id": id}, nil
	}
}

func sendEmail(c Courier) Handler {
	return func(ctx context.Context, inv Invocation) (any, error) {
		to, err := requireString(inv.Args, "to")
		if err != nil {
			return nil, err
		}
		if !strings.Contains(to, "@") {
			return nil, fmt.Errorf("%w: to must be an email address", ErrInvalidActionArgs)
		}
		body, err := requireString(inv.Args, "body")
		if err != nil {
			return nil, err
		}

		id, err := c.Deliver(ctx, Dispatch{
			Channel: channels.Email,
			Action:  ActionSendEmail,
			To:      to,
			Subject: optionalString(inv.Args, "subject", "A message from your broker"),
			Body:    body,
		}, inv.Credentials)
		if err != nil {
			return nil, fmt.Errorf("send email: %w", err)
		}
		return map[string]any{"status": "sent", "message_id": id}, nil
	}
}

func publishListing(c Courier) Handler {
	return func(ctx context.Context, inv Invocation) (any, error) {
		ref, err := requireString(inv.Args, "listing_ref")
		if err != nil {
			return nil, err
		}

		id, err := c.Deliver(ctx, Dispatch{
			Channel: channels.Portals,
			Action:  ActionPublishListing,
			To:      ref,
			Subject: optionalString(inv.Args, "title", ""),
			Body:    optionalString(inv.Args, "description", ""),
		}, inv.Credentials)
		if err != nil {
			return nil, fmt.Errorf("publish listing: %w", err)
		}
		return map[string]any{"status": "queued", "job_id": id}, nil
	}
}

func requireString(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidActionArgs, key)
	}
	return strings.TrimSpace(v), nil
}

func optionalString(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
