package domain

// LLMSettings are per-request overrides for the narrative collaborator.
// Everything is optional; unset fields fall back to server defaults.
type LLMSettings struct {
	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	ApiKey      string   `json:"apiKey,omitempty"`
	BaseUrl     string   `json:"baseUrl,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}
