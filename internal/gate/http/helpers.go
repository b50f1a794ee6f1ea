package http

import (
	"net/http"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
	"github.com/aussiebroadwan/gate/pkg/gatesdk"
	"github.com/aussiebroadwan/gate/pkg/httpx"
)

func userIDFromContext(r *http.Request) (string, bool) {
	return httpx.UserIDFromContext(r.Context())
}

func toFieldSpecs(fields []domain.FieldSpec) []gatesdk.FieldSpec {
	out := make([]gatesdk.FieldSpec, len(fields))
	for i, f := range fields {
		out[i] = gatesdk.FieldSpec{Key: f.Key, Type: string(f.Type), Label: f.Label}
	}
	return out
}

func toChannelSpec(s domain.ChannelSpec) gatesdk.ChannelSpec {
	return gatesdk.ChannelSpec{
		Name:   s.Name,
		Title:  s.Title,
		Detail: s.Detail,
		Prompt: s.Prompt,
		Fields: toFieldSpecs(s.Fields),
	}
}
