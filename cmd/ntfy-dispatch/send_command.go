package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ntfydispatch/internal/config"
	"ntfydispatch/internal/history"
	"ntfydispatch/internal/logging"
	"ntfydispatch/internal/metrics"
	"ntfydispatch/internal/notifications"
	"ntfydispatch/internal/services"
)

type sendOptions struct {
	message   string
	topic     string
	url       string
	auth      string
	attrs     []string
	attrsJSON string
	argsJSON  string
	vars      []string
	timeout   time.Duration
	compact   bool
}

func newSendCommand(ctx *commandContext) *cobra.Command {
	var opts sendOptions

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Publish a notification to the configured relay",
		Long: `Publish a single notification and print the relay acknowledgment.

Flags map onto the task arguments msg, topic, url, auth and attrs. Values not
given fall back to the [ntfy] section of the configuration, then to the
built-in defaults. --args-json passes raw arguments through unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := opts.params(cmd)
			if err != nil {
				return err
			}
			return runSend(cmd, ctx, params, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.message, "msg", "m", "", "Message body")
	flags.StringVarP(&opts.topic, "topic", "t", "", "Topic to publish to")
	flags.StringVarP(&opts.url, "url", "u", "", "Relay URL")
	flags.StringVar(&opts.auth, "auth", "", "Pre-encoded base64 user:password token")
	flags.StringArrayVar(&opts.attrs, "attr", nil, "Extra message attribute as key=value (value parsed as JSON when possible; repeatable)")
	flags.StringVar(&opts.attrsJSON, "attrs-json", "", "Extra message attributes as a JSON object")
	flags.StringVar(&opts.argsJSON, "args-json", "", "Raw task arguments as a JSON object")
	flags.StringArrayVar(&opts.vars, "var", nil, "Variable binding as key=value (repeatable)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Abort the request after this long (0 waits indefinitely)")
	flags.BoolVar(&opts.compact, "json", false, "Print compact JSON")

	return cmd
}

// params assembles the task arguments. Raw --args-json values come first and
// explicit flags override them.
func (o sendOptions) params(cmd *cobra.Command) (notifications.Params, error) {
	args := map[string]any{}
	if strings.TrimSpace(o.argsJSON) != "" {
		decoded, err := decodeJSONObject(o.argsJSON)
		if err != nil {
			return notifications.Params{}, fmt.Errorf("--args-json: %w", err)
		}
		args = decoded
	}

	flags := cmd.Flags()
	if flags.Changed("msg") {
		args[notifications.ArgMessage] = o.message
	}
	if flags.Changed("topic") {
		args[notifications.ArgTopic] = o.topic
	}
	if flags.Changed("url") {
		args[notifications.ArgURL] = o.url
	}
	if flags.Changed("auth") {
		args[notifications.ArgAuth] = o.auth
	}

	attrs, err := o.attrMap()
	if err != nil {
		return notifications.Params{}, err
	}
	if len(attrs) > 0 {
		if existing, ok := args[notifications.ArgAttrs].(map[string]any); ok {
			merged := maps.Clone(existing)
			maps.Copy(merged, attrs)
			attrs = merged
		}
		args[notifications.ArgAttrs] = attrs
	}

	vars := map[string]any{}
	for _, raw := range o.vars {
		key, value, err := splitKeyValue("--var", raw)
		if err != nil {
			return notifications.Params{}, err
		}
		vars[key] = value
	}

	return notifications.Params{Args: args, Vars: vars}, nil
}

func (o sendOptions) attrMap() (map[string]any, error) {
	attrs := map[string]any{}
	if strings.TrimSpace(o.attrsJSON) != "" {
		decoded, err := decodeJSONObject(o.attrsJSON)
		if err != nil {
			return nil, fmt.Errorf("--attrs-json: %w", err)
		}
		attrs = decoded
	}
	for _, raw := range o.attrs {
		key, value, err := splitKeyValue("--attr", raw)
		if err != nil {
			return nil, err
		}
		attrs[key] = attrValue(value)
	}
	return attrs, nil
}

func runSend(cmd *cobra.Command, ctx *commandContext, params notifications.Params, opts sendOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	runCtx := services.WithOperation(cmd.Context(), "send")
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, opts.timeout)
		defer cancel()
	}

	collector := metrics.New()
	dispatchOpts := []notifications.Option{
		notifications.WithUserAgent(cfg.Ntfy.UserAgent),
		notifications.WithLogger(logger),
		notifications.WithObserver(collector),
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(runCtx, cfg.History.Path)
		if err != nil {
			logger.Warn("dispatch history unavailable", logging.String("path", cfg.History.Path), logging.Error(err))
		} else {
			defer store.Close()
			dispatchOpts = append(dispatchOpts, notifications.WithObserver(history.NewRecorder(store, logger)))
		}
	}

	dispatcher := notifications.New(dispatchOpts...)
	result, dispatchErr := dispatcher.DispatchParams(runCtx, params, dispatchDefaults(cfg))

	if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.Warn("metrics textfile not written", logging.String("path", cfg.Metrics.Textfile), logging.Error(err))
	}
	if store != nil {
		pruneHistory(runCtx, store, cfg.History.RetentionDays, logger)
	}

	if dispatchErr != nil {
		return dispatchErr
	}
	logging.WithContext(runCtx, logger).Info("notification sent",
		logging.String("relay_id", result.RelayID()),
		logging.String("url", fmt.Sprint(result[notifications.ResultURL])),
	)
	return writeJSON(cmd, result, opts.compact)
}

func dispatchDefaults(cfg *config.Config) notifications.Defaults {
	return notifications.Defaults{
		URL:       cfg.Ntfy.URL,
		Topic:     cfg.Ntfy.Topic,
		Message:   cfg.Ntfy.Message,
		AuthToken: cfg.Ntfy.Auth,
		Attrs:     cfg.Ntfy.Attrs,
	}
}

func pruneHistory(ctx context.Context, store *history.Store, retentionDays int, logger *slog.Logger) {
	if retentionDays <= 0 {
		return
	}
	removed, err := store.Prune(context.WithoutCancel(ctx), time.Duration(retentionDays)*24*time.Hour)
	if err != nil {
		logger.Warn("history prune failed", logging.Error(err))
		return
	}
	if removed > 0 {
		logger.Debug("history pruned", logging.Int64("removed", removed))
	}
}

func decodeJSONObject(raw string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode JSON object: %w", err)
	}
	if out == nil {
		return nil, errors.New("expected a JSON object")
	}
	return out, nil
}

// attrValue parses value as JSON so numbers, booleans and lists keep their
// type; anything that is not valid JSON is sent as a plain string.
func attrValue(value string) any {
	dec := json.NewDecoder(strings.NewReader(value))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil || dec.More() {
		return value
	}
	return decoded
}

func splitKeyValue(flag, raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("%s expects key=value, got %q", flag, raw)
	}
	return key, value, nil
}
