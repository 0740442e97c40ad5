package config

const (
	defaultConfigPath       = "~/.config/ntfy-dispatch/config.toml"
	projectConfigName       = "ntfy-dispatch.toml"
	defaultURL              = "https://ntfy.sh"
	defaultTopic            = "test-topic"
	defaultMessage          = "Ansible playbook"
	defaultUserAgent        = "ntfy-dispatch/0.1.0"
	defaultStateDir         = "~/.local/share/ntfy-dispatch"
	defaultLogDir           = "~/.local/share/ntfy-dispatch/logs"
	defaultHistoryFile      = "history.db"
	defaultHistoryRetention = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "warn"
	defaultLogMaxSizeMB     = 10
	defaultLogMaxBackups    = 3
	defaultLogMaxAgeDays    = 28
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Ntfy: Ntfy{
			URL:       defaultURL,
			Topic:     defaultTopic,
			Message:   defaultMessage,
			UserAgent: defaultUserAgent,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		History: History{
			Enabled:       true,
			RetentionDays: defaultHistoryRetention,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
