package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/aussiebroadwan/gate/internal/gate/channels"
	"github.com/aussiebroadwan/gate/internal/gate/domain"
	"github.com/aussiebroadwan/gate/pkg/slogx"
)

var ErrResumeTokenNotFound = errors.New("resume_token not found or already used")

type Status string

const (
	StatusExecuted           Status = "executed"
	StatusRequiresConnection Status = "requires_connection"
	StatusStillBlocked       Status = "still_blocked"
)

// ConnectionRequired tells the caller which credentials to collect
// before the action can run.
type ConnectionRequired struct {
	Channel     string             `json:"channel"`
	Prompt      string             `json:"prompt"`
	Fields      []domain.FieldSpec `json:"fields"`
	ResumeToken string             `json:"resume_token,omitempty"`
}

type Outcome struct {
	Status     Status              `json:"status"`
	Result     any                 `json:"result,omitempty"`
	Connection *ConnectionRequired `json:"connection,omitempty"`
}

type ResumeOutcome struct {
	Status     Status              `json:"status"`
	ActionName string              `json:"action_name,omitempty"`
	Result     any                 `json:"result,omitempty"`
	Connection *ConnectionRequired `json:"connection,omitempty"`
}

// Gateway runs registered actions, parking those whose channel is not
// connected behind a resume token.
type Gateway struct {
	Vault    *VaultService
	Tokens   *ResumeService
	Catalog  *channels.Catalog
	Registry *Registry
}

// Execute resolves and runs one action for the caller.
func (g *Gateway) Execute(ctx context.Context, userID, sessionID, actionName string, args map[string]any) (Outcome, error) {
	log := slogx.FromContext(ctx).With(slog.String("action", actionName))

	// 1. Resolve and attempt.
	result, conn, err := g.attempt(ctx, userID, sessionID, actionName, args)
	if err != nil {
		return Outcome{}, err
	}
	if conn == nil {
		log.Info("action executed")
		return Outcome{Status: StatusExecuted, Result: result}, nil
	}

	// 2. Park the action until the channel is connected.
	token, err := g.Tokens.Create(ctx, userID, sessionID, actionName, args)
	if err != nil {
		return Outcome{}, err
	}
	conn.ResumeToken = token

	log.Info("action parked pending connection", slog.String("channel", conn.Channel))
	return Outcome{Status: StatusRequiresConnection, Connection: conn}, nil
}

// Resume redeems a token and retries the parked action. A still missing
// credential yields still_blocked without a new token; the caller starts
// over with Execute.
func (g *Gateway) Resume(ctx context.Context, token string) (ResumeOutcome, error) {
	pending, ok, err := g.Tokens.Consume(ctx, token)
	if err != nil {
		return ResumeOutcome{}, err
	}
	if !ok {
		return ResumeOutcome{}, ErrResumeTokenNotFound
	}

	log := slogx.FromContext(ctx).With(slog.String("action", pending.ActionName))

	result, conn, err := g.attempt(ctx, pending.UserID, pending.SessionID, pending.ActionName, pending.Args)
	if err != nil {
		return ResumeOutcome{}, err
	}
	if conn != nil {
		log.Info("resumed action still blocked", slog.String("channel", conn.Channel))
		return ResumeOutcome{Status: StatusStillBlocked, ActionName: pending.ActionName, Connection: conn}, nil
	}

	log.Info("resumed action executed")
	return ResumeOutcome{Status: StatusExecuted, ActionName: pending.ActionName, Result: result}, nil
}

// attempt runs the action if its credentials are present. It returns a
// connection prompt instead when they are not.
func (g *Gateway) attempt(ctx context.Context, userID, sessionID, actionName string, args map[string]any) (any, *ConnectionRequired, error) {
	action, err := g.Registry.Lookup(actionName)
	if err != nil {
		return nil, nil, err
	}

	inv := Invocation{UserID: userID, SessionID: sessionID, Args: args}
	if action.Channel != "" {
		cfg, ok, err := g.Vault.Get(ctx, userID, action.Channel)
		if err != nil {
			return nil, nil, err
		}
		if !ok || !g.Catalog.Complete(action.Channel, cfg) {
			return nil, g.connectionFor(action.Channel), nil
		}
		inv.Credentials = cfg
	}

	result, err := action.Handler(ctx, inv)
	if err != nil {
		return nil, nil, err
	}
	return result, nil, nil
}

func (g *Gateway) connectionFor(channel string) *ConnectionRequired {
	spec, ok := g.Catalog.Lookup(channel)
	if !ok {
		return &ConnectionRequired{Channel: channel, Prompt: "Connect " + channel + " to continue.", Fields: []domain.FieldSpec{}}
	}
	return &ConnectionRequired{
		Channel: channel,
		Prompt:  spec.Prompt,
		Fields:  slices.Clone(spec.Fields),
	}
}
