package notifications

import (
	"encoding/json"
	"fmt"
)

// Bookkeeping keys written before the relay response is merged.
const (
	ResultChanged = "changed"
	ResultFailed  = "failed"
	ResultMsg     = "msg"
	ResultURL     = "url"
)

// Result is the relay acknowledgment merged over the bookkeeping fields.
// Response keys win on collision. The request topic is deliberately not part
// of the bookkeeping; a topic echoed by the relay still passes through.
type Result map[string]any

func newResult(url string, response map[string]any) Result {
	result := Result{
		ResultChanged: false,
		ResultFailed:  false,
		ResultMsg:     "ok",
		ResultURL:     url,
	}
	for key, value := range response {
		result[key] = value
	}
	return result
}

// RelayID returns the message id assigned by the relay, if any.
func (r Result) RelayID() string {
	return r.stringField("id")
}

// Event returns the relay event type ("message" for a publish).
func (r Result) Event() string {
	return r.stringField("event")
}

func (r Result) stringField(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
