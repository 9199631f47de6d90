package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	// Committed lists blocks already published when a multi-block operation failed midway.
	Committed []*StateBlock `json:"committed,omitempty"`
}
