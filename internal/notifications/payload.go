package notifications

import (
	"bytes"
	"encoding/json"
	"maps"

	"ntfydispatch/internal/services"
)

// BuildPayload renders the JSON publish body. Attrs are shallow-merged over
// topic and message, so an attrs key named "topic" or "message" replaces the
// base value. Keys are emitted sorted, making the output a pure function of
// the request.
func BuildPayload(req Request) ([]byte, error) {
	data := make(map[string]any, 2+len(req.Attrs))
	data["topic"] = req.Topic
	data["message"] = req.Message
	maps.Copy(data, req.Attrs)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return nil, services.Wrap(services.ErrValidation, component, "build payload", "attrs cannot be encoded as JSON", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
