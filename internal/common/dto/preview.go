package dto

// PreviewMessage represents a message received from a preview surface over
// its WebSocket connection
type PreviewMessage struct {
	Type string `json:"type"`
}

// MsgType values for preview surface messages
const (
	MsgTypePreviewReady = "PREVIEW_READY"
)

// SnapshotResponse carries the "open in new tab" URL for the current draft
type SnapshotResponse struct {
	URL string `json:"url"`
}
