package channels

import "github.com/aussiebroadwan/gate/internal/gate/domain"

var defaultSpecs = []domain.ChannelSpec{
	{
		Name:   WhatsApp,
		Title:  "WhatsApp",
		Detail: "Send replies and offers directly from the console.",
		Prompt: "Which number should send messages?",
		Fields: []domain.FieldSpec{
			{Key: "account_sid", Type: domain.FieldText, Label: "Twilio Account SID"},
			{Key: "auth_token", Type: domain.FieldPassword, Label: "Twilio Auth Token"},
			{Key: "from_number", Type: domain.FieldTel, Label: "WhatsApp sender (e.g. whatsapp:+14155238886)"},
		},
	},
	{
		Name:   Voice,
		Title:  "Voice",
		Detail: "Call leads and confirm viewings directly from the console.",
		Prompt: "Which number should place the call?",
		Fields: []domain.FieldSpec{
			{Key: "account_sid", Type: domain.FieldText, Label: "Twilio Account SID"},
			{Key: "auth_token", Type: domain.FieldPassword, Label: "Twilio Auth Token"},
			{Key: "from_number", Type: domain.FieldTel, Label: "Caller number (e.g. +971XXXXXXXXX)"},
		},
	},
	{
		Name:   Instagram,
		Title:  "Instagram",
		Detail: "Handle DMs and keep every inquiry active from the console.",
		Prompt: "Connect your Instagram Business account.",
		Fields: []domain.FieldSpec{
			{Key: "page_access_token", Type: domain.FieldPassword, Label: "Page Access Token (long-lived)"},
			{Key: "instagram_account_id", Type: domain.FieldText, Label: "Instagram Business Account ID"},
		},
	},
	{
		Name:   Facebook,
		Title:  "Facebook",
		Detail: "Respond to page inquiries without leaving the console.",
		Prompt: "Connect your Facebook Business Page.",
		Fields: []domain.FieldSpec{
			{Key: "page_access_token", Type: domain.FieldPassword, Label: "Page Access Token"},
			{Key: "page_id", Type: domain.FieldText, Label: "Facebook Page ID"},
		},
	},
	{
		Name:   Email,
		Title:  "Email",
		Detail: "Send documents and follow-ups from the console.",
		Prompt: "Configure your outbound email account.",
		Fields: []domain.FieldSpec{
			{Key: "smtp_host", Type: domain.FieldText, Label: "SMTP Host (e.g. smtp.gmail.com)"},
			{Key: "smtp_port", Type: domain.FieldText, Label: "SMTP Port (e.g. 587)"},
			{Key: "smtp_user", Type: domain.FieldText, Label: "Username or email address"},
			{Key: "smtp_pass", Type: domain.FieldPassword, Label: "App password or SMTP password"},
		},
	},
	{
		Name:   Portals,
		Title:  "Listing Portals",
		Detail: "Post, refresh, and update listings from the console.",
		Prompt: "Connect your listing portal account.",
		Fields: []domain.FieldSpec{
			{Key: "portal_name", Type: domain.FieldText, Label: "Portal name (e.g. Bayut, Property Finder)"},
			{Key: "api_key", Type: domain.FieldPassword, Label: "API Key"},
			{Key: "agency_ref", Type: domain.FieldText, Label: "Agency or reference ID"},
		},
	},
}
