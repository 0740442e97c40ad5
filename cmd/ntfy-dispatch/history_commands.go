package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ntfydispatch/internal/config"
	"ntfydispatch/internal/history"
)

type historyView struct {
	ID         string `json:"id"`
	RequestID  string `json:"request_id,omitempty"`
	CreatedAt  string `json:"created_at"`
	URL        string `json:"url"`
	Outcome    string `json:"outcome"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
	RelayID    string `json:"relay_id,omitempty"`
	RelayEvent string `json:"relay_event,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the local dispatch journal",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent dispatches, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(cmd, ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				views := make([]historyView, 0, len(entries))
				for _, entry := range entries {
					views = append(views, toHistoryView(entry))
				}
				return writeJSON(cmd, views, false)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No dispatches recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					string(entry.Outcome),
					dashIfEmpty(entry.ErrorKind),
					dashIfEmpty(entry.RelayID),
					entry.Duration.Round(time.Millisecond).String(),
					entry.URL,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Outcome", "Kind", "Relay ID", "Duration", "URL"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan string

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old dispatch records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			age, err := pruneWindow(olderThan, cfg)
			if err != nil {
				return err
			}

			store, err := openHistory(cmd, ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context(), age)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d dispatch record(s) older than %s\n", removed, age)
			return nil
		},
	}

	cmd.Flags().StringVar(&olderThan, "older-than", "", "Age threshold such as 72h or 30d (defaults to history.retention_days)")
	return cmd
}

func openHistory(cmd *cobra.Command, ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, errors.New("dispatch history is disabled (set history.enabled = true)")
	}
	return history.Open(cmd.Context(), cfg.History.Path)
}

func pruneWindow(raw string, cfg *config.Config) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if cfg.History.RetentionDays <= 0 {
			return 0, errors.New("--older-than is required when history.retention_days is 0")
		}
		return time.Duration(cfg.History.RetentionDays) * 24 * time.Hour, nil
	}
	return parseAge(raw)
}

// parseAge accepts Go durations plus a whole-day "Nd" form.
func parseAge(raw string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid age %q", raw)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	age, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid age %q: %w", raw, err)
	}
	if age <= 0 {
		return 0, fmt.Errorf("invalid age %q: must be positive", raw)
	}
	return age, nil
}

func toHistoryView(entry history.Entry) historyView {
	return historyView{
		ID:         entry.ID,
		RequestID:  entry.RequestID,
		CreatedAt:  entry.CreatedAt.UTC().Format(time.RFC3339),
		URL:        entry.URL,
		Outcome:    string(entry.Outcome),
		ErrorKind:  entry.ErrorKind,
		Error:      entry.ErrorMessage,
		RelayID:    entry.RelayID,
		RelayEvent: entry.RelayEvent,
		DurationMS: entry.Duration.Milliseconds(),
	}
}

func dashIfEmpty(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
