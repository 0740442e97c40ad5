package logging

import "time"

const (
	// consoleTimeLayout is read by people at a terminal, in local time.
	consoleTimeLayout = "2006-01-02 15:04:05"
	// fileTimeLayout is read by log shippers, always in UTC.
	fileTimeLayout = time.RFC3339
)

func consoleTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format(consoleTimeLayout)
}

func fileTimestamp(ts time.Time) string {
	return ts.UTC().Format(fileTimeLayout)
}
