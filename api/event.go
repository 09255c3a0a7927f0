package api

// ActionEvent is a single operator action as exchanged with the fleet platform.
type ActionEvent struct {
	Action    string  `json:"action"`
	Code      uint16  `json:"code"`
	Device    string  `json:"device"`
	SessionID string  `json:"session_id"`
	Timestamp float64 `json:"timestamp"`
}

// SearchEventsResult is one page of the platform's event search reply.
type SearchEventsResult struct {
	Results []*ActionEvent `json:"results"`
	Count   int            `json:"count"`
	Total   int            `json:"total"`
}
