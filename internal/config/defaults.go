package config

const (
	defaultConfigPath             = "~/.config/clickscribe/config.toml"
	defaultDataDir                = "~/.local/share/clickscribe"
	defaultLogDir                 = "~/.local/share/clickscribe/logs"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultTranscriptFormat       = "auto"
	defaultFallbackMaxDistanceSec = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Alignment: Alignment{
			ClosestFallback:            false,
			FallbackMaxDistanceSeconds: defaultFallbackMaxDistanceSec,
			SortSteps:                  false,
			WarnUnsorted:               true,
		},
		Transcription: Transcription{
			DefaultFormat: defaultTranscriptFormat,
		},
	}
}
