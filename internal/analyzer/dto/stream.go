package dto

// StreamTask is the payload carried on the analysis Redis streams. Symbols is
// empty for "all LQ45" runs.
type StreamTask struct {
	Symbols     []string `json:"symbols,omitempty"`
	TriggeredBy string   `json:"triggered_by"`
}
