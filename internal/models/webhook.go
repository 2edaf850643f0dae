package models

import "encoding/json"

// RenderResponse is returned by the preview endpoint.
type RenderResponse struct {
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description"`
}

// TicketErrorResponse describes a failed ticket creation. StatusCode and
// Response are only set when Jira itself rejected the request.
type TicketErrorResponse struct {
	RequestID  string `json:"request_id,omitempty"`
	Error      string `json:"error"`
	StatusCode int    `json:"status_code,omitempty"`
	Response   string `json:"response,omitempty"`
}

type TicketListResponse struct {
	Total   int            `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	Tickets []TicketResult `json:"tickets"`
}
