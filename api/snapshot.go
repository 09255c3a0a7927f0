package api

// Snapshot describes a camera frame captured alongside a logged action.
type Snapshot struct {
	Action  string  `json:"action"`
	Path    string  `json:"path"`
	Size    int64   `json:"size"`
	TakenAt float64 `json:"taken_at"`
}
