package preview

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// fragmentParam is the fragment parameter carrying the encoded payload on a
// snapshot URL
const fragmentParam = "config"

// EncodePayload serializes the payload to JSON and base64-encodes it with a
// URL-safe alphabet. The encoding is byte-exact over UTF-8, so umlauts in
// school and service names survive the round trip.
func EncodePayload(p *Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodePayload reverses EncodePayload. The preview application performs the
// same decode; this side exists for the round-trip contract tests and the
// occasional debugging session.
func DecodePayload(encoded string) (*Payload, error) {
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return &p, nil
}

// SnapshotURL builds the "open in new tab" URL: the configured preview
// application address with the encoded payload as a fragment parameter. The
// fragment keeps the payload out of server logs on the preview host.
func SnapshotURL(appURL string, p *Payload) (string, error) {
	encoded, err := EncodePayload(p)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(appURL, "/") + "/#" + fragmentParam + "=" + encoded, nil
}

// PayloadFromSnapshotURL extracts and decodes the payload from a snapshot URL
func PayloadFromSnapshotURL(rawURL string) (*Payload, error) {
	idx := strings.Index(rawURL, "#"+fragmentParam+"=")
	if idx < 0 {
		return nil, fmt.Errorf("no %s fragment in URL", fragmentParam)
	}
	return DecodePayload(rawURL[idx+len(fragmentParam)+2:])
}
