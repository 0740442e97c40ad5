package notifications

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"ntfydispatch/internal/services"
)

// decodeResponse turns the raw relay body into a JSON object. The body is read
// as UTF-8 (a leading BOM is dropped, invalid sequences become U+FFFD) and
// numbers are kept as json.Number so large ids survive re-encoding.
func decodeResponse(raw []byte) (map[string]any, error) {
	text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return nil, services.Wrap(services.ErrResponseFormat, component, "decode response", "body is not UTF-8 text", err)
	}

	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, services.Wrap(services.ErrResponseFormat, component, "decode response",
			"body is not valid JSON: "+snippet(text), err)
	}
	if out == nil {
		return nil, services.Wrap(services.ErrResponseFormat, component, "decode response", "body is not a JSON object", nil)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, services.Wrap(services.ErrResponseFormat, component, "decode response", "unexpected data after JSON object", nil)
	}
	return out, nil
}

func snippet(body []byte) string {
	const limit = 256
	text := string(bytes.TrimSpace(body))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}
