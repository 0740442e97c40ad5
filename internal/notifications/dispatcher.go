package notifications

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"ntfydispatch/internal/logging"
	"ntfydispatch/internal/services"
)

const (
	component        = "ntfy"
	DefaultUserAgent = "ntfy-dispatch/0.1.0"
	errorBodyLimit   = 2048
)

// Doer is the subset of *http.Client the dispatcher needs.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Service defines the dispatch surface consumed by the CLI.
type Service interface {
	Dispatch(ctx context.Context, req Request) (Result, error)
}

// Event describes one finished dispatch attempt.
type Event struct {
	RequestID  string
	URL        string
	Started    time.Time
	Duration   time.Duration
	RelayID    string
	RelayEvent string
	Err        error
}

// Observer is notified after every dispatch, successful or not.
type Observer interface {
	ObserveDispatch(ctx context.Context, event Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, event Event)

// ObserveDispatch calls f.
func (f ObserverFunc) ObserveDispatch(ctx context.Context, event Event) { f(ctx, event) }

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client Doer) Option {
	return func(d *Dispatcher) {
		if client != nil {
			d.client = client
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(d *Dispatcher) {
		if ua := strings.TrimSpace(userAgent); ua != "" {
			d.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for the diagnostic line.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logging.NewComponentLogger(logger, component)
	}
}

// WithObserver registers an observer. Observers run in registration order on
// the dispatching goroutine.
func WithObserver(observer Observer) Option {
	return func(d *Dispatcher) {
		if observer != nil {
			d.observers = append(d.observers, observer)
		}
	}
}

// Dispatcher posts notifications to an ntfy relay. It holds no mutable state
// and is safe for concurrent use.
type Dispatcher struct {
	client    Doer
	userAgent string
	logger    *slog.Logger
	observers []Observer
	now       func() time.Time
}

// New constructs a Dispatcher. Without WithHTTPClient it uses an http.Client
// with no timeout; bound latency with the context instead.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		client:    &http.Client{},
		userAgent: DefaultUserAgent,
		logger:    logging.NewComponentLogger(nil, component),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DispatchParams resolves host parameters against defaults and dispatches.
// Observers also see resolution failures.
func (d *Dispatcher) DispatchParams(ctx context.Context, params Params, defaults Defaults) (Result, error) {
	ctx, requestID := withRequestID(ctx)
	started := d.now()

	req, err := RequestFromParams(params, defaults)
	if err != nil {
		d.observe(ctx, Event{RequestID: requestID, URL: attemptedURL(params, defaults), Started: started}, nil, err)
		return nil, err
	}
	return d.dispatchObserved(ctx, requestID, started, req)
}

// Dispatch performs a single POST of the request payload and returns the
// merged result. Nothing is retried.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	ctx, requestID := withRequestID(ctx)
	return d.dispatchObserved(ctx, requestID, d.now(), req)
}

func (d *Dispatcher) dispatchObserved(ctx context.Context, requestID string, started time.Time, req Request) (Result, error) {
	result, err := d.dispatch(ctx, req)
	d.observe(ctx, Event{RequestID: requestID, URL: req.URL, Started: started}, result, err)
	return result, err
}

// observe completes event from the outcome and hands it to every observer.
func (d *Dispatcher) observe(ctx context.Context, event Event, result Result, err error) {
	event.Duration = d.now().Sub(event.Started)
	event.Err = err
	if result != nil {
		event.RelayID = result.RelayID()
		event.RelayEvent = result.Event()
	}
	for _, observer := range d.observers {
		observer.ObserveDispatch(ctx, event)
	}
}

func withRequestID(ctx context.Context) (context.Context, string) {
	if requestID, ok := services.RequestIDFromContext(ctx); ok {
		return ctx, requestID
	}
	requestID := uuid.NewString()
	return services.WithRequestID(ctx, requestID), requestID
}

// attemptedURL names the relay a rejected dispatch was aimed at. A url
// argument that is not a string yields "".
func attemptedURL(params Params, defaults Defaults) string {
	value, ok := params.Args[ArgURL]
	if !ok {
		return defaults.withFallbacks().URL
	}
	s, _ := value.(string)
	return s
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request) (Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	body, err := BuildPayload(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, component, "build request", "invalid url option", err)
	}
	httpReq.Header.Set("User-Agent", d.userAgent)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Basic "+req.AuthToken)
	}

	logging.WithContext(ctx, d.logger).Debug(fmt.Sprintf("notifying topic [%s] at [%s]", req.Topic, req.URL))

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, component, "post", "send notification", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, component, "post", "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := truncateText(strings.TrimSpace(string(raw)), errorBodyLimit)
		return nil, services.Wrap(services.ErrTransport, component, "post",
			fmt.Sprintf("relay returned %d: %s", resp.StatusCode, detail), nil)
	}

	response, err := decodeResponse(raw)
	if err != nil {
		return nil, err
	}
	return newResult(req.URL, response), nil
}

func validateRequest(req Request) error {
	if strings.TrimSpace(req.URL) == "" {
		return services.Wrap(services.ErrValidation, component, "validate", "url option must not be empty", nil)
	}
	parsed, err := url.Parse(req.URL)
	if err != nil {
		return services.Wrap(services.ErrValidation, component, "validate", "invalid url option", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return services.Wrap(services.ErrValidation, component, "validate",
			fmt.Sprintf("url option must use http or https, got %q", parsed.Scheme), nil)
	}
	if strings.TrimSpace(req.Topic) == "" {
		return services.Wrap(services.ErrValidation, component, "validate", "topic option must not be empty", nil)
	}
	return nil
}

// truncateText cuts s to at most limit bytes without splitting a UTF-8
// sequence.
func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
