/*
Package gatesdk is a client for the gate service and the wire types its
HTTP API speaks.

# Usage

	client := gatesdk.NewClient("https://gate.example.com")
	client.Token = accessToken // only when the service runs with GATE_AUTH_MODE=jwt

	resp, err := client.InvokeTool(ctx, "send_whatsapp", gatesdk.ToolRequest{
		SessionID: "s-1",
		Args:      map[string]any{"to_number": "+971500000000"},
	})

When the tool needs a channel the caller has not connected, resp has
RequiresConnection set together with the fields to collect and a one-time
ResumeToken:

	if resp.RequiresConnection {
		_, err = client.ConfigureChannel(ctx, gatesdk.ConfigureChannelRequest{
			Channel: resp.Channel,
			Config:  collected,
		})
		res, err := client.Resume(ctx, resp.ResumeToken)
	}

# Errors

Non-2xx responses are returned as *APIError carrying the HTTP status and
the error, error_description pair. Use IsNotFound for a used or unknown
resume token.

# Threat level

Every tool response reports the caller's threat level. Results returned at
any level other than "clear" have been degraded by the service.
*/
package gatesdk
