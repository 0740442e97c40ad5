package notifications

import (
	"encoding/json"
	"fmt"
	"maps"

	"ntfydispatch/internal/services"
)

const (
	DefaultURL     = "https://ntfy.sh"
	DefaultTopic   = "test-topic"
	DefaultMessage = "Ansible playbook"
)

// Option names recognized in Params.Args.
const (
	ArgMessage = "msg"
	ArgTopic   = "topic"
	ArgURL     = "url"
	ArgAuth    = "auth"
	ArgAttrs   = "attrs"

	// VarTopic is the variable binding consulted when no topic argument is given.
	VarTopic = "topic"
)

// Request is one fully resolved notification. It is never mutated after
// construction.
type Request struct {
	URL       string
	Topic     string
	Message   string
	AuthToken string         // pre-encoded base64 "user:pass"; empty sends no Authorization header
	Attrs     map[string]any // merged over topic/message; keys here win
}

// Params carries the untyped task arguments and variable bindings supplied by
// the invoking host.
type Params struct {
	Args map[string]any
	Vars map[string]any
}

// Defaults seeds every field Params may omit.
type Defaults struct {
	URL       string
	Topic     string
	Message   string
	AuthToken string
	Attrs     map[string]any
}

// StandardDefaults returns the built-in fallbacks.
func StandardDefaults() Defaults {
	return Defaults{URL: DefaultURL, Topic: DefaultTopic, Message: DefaultMessage}
}

func (d Defaults) withFallbacks() Defaults {
	if d.URL == "" {
		d.URL = DefaultURL
	}
	if d.Topic == "" {
		d.Topic = DefaultTopic
	}
	if d.Message == "" {
		d.Message = DefaultMessage
	}
	return d
}

// RequestFromParams resolves a Request from host parameters. The topic comes
// from Args, then Vars, then the defaults. A non-string url or topic fails
// with services.ErrValidation before anything touches the network; url is
// checked first. Attrs from Args are merged over the default attrs.
func RequestFromParams(params Params, defaults Defaults) (Request, error) {
	defaults = defaults.withFallbacks()
	req := Request{
		URL:       defaults.URL,
		Topic:     defaults.Topic,
		Message:   defaults.Message,
		AuthToken: defaults.AuthToken,
		Attrs:     maps.Clone(defaults.Attrs),
	}

	if value, ok := params.Args[ArgURL]; ok {
		s, isString := value.(string)
		if !isString {
			return Request{}, invalidType(ArgURL, value)
		}
		req.URL = s
	}

	topic, ok := params.Args[ArgTopic]
	if !ok {
		topic, ok = params.Vars[VarTopic]
	}
	if ok {
		s, isString := topic.(string)
		if !isString {
			return Request{}, invalidType(ArgTopic, topic)
		}
		req.Topic = s
	}

	if value, ok := params.Args[ArgMessage]; ok {
		msg, err := messageText(value)
		if err != nil {
			return Request{}, err
		}
		req.Message = msg
	}

	if value, ok := params.Args[ArgAuth]; ok && value != nil {
		s, isString := value.(string)
		if !isString {
			return Request{}, invalidType(ArgAuth, value)
		}
		req.AuthToken = s
	}

	if value, ok := params.Args[ArgAttrs]; ok && value != nil {
		attrs, err := attrsMap(value)
		if err != nil {
			return Request{}, err
		}
		if req.Attrs == nil {
			req.Attrs = make(map[string]any, len(attrs))
		}
		maps.Copy(req.Attrs, attrs)
	}

	return req, nil
}

// messageText keeps string messages as-is and renders any other JSON value
// in its JSON form. A null message is rejected rather than sent as "null".
func messageText(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case nil:
		return "", services.Wrap(services.ErrValidation, component, "validate", "msg option must not be null", nil)
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, component, "validate", "msg option cannot be encoded", err)
	}
	return string(encoded), nil
}

func attrsMap(value any) (map[string]any, error) {
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case map[string]string:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = val
		}
		return out, nil
	default:
		return nil, services.Wrap(services.ErrValidation, component, "validate",
			fmt.Sprintf("invalid type %T supplied for %s option, it must be a mapping", value, ArgAttrs), nil)
	}
}

func invalidType(option string, value any) error {
	return services.Wrap(services.ErrValidation, component, "validate",
		fmt.Sprintf("invalid type %T supplied for %s option, it must be a string", value, option), nil)
}
