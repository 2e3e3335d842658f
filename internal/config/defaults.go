package config

const (
	defaultConfigPath         = "~/.config/usdabc/config.toml"
	projectConfigName         = "usdabc.toml"
	defaultLogDir             = "~/.local/share/usdabc/logs"
	defaultBasis              = "hermite"
	defaultLockTimeoutSeconds = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultRetentionDays      = 30
	maxWorkers                = 256
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Conversion: Conversion{
			Basis: defaultBasis,
		},
		Archive: Archive{
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}
