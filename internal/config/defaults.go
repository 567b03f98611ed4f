package config

const (
	defaultFFmpegBinary = "ffmpeg"
	defaultAudioArgs    = "-c:a aac -b:a 128k -f adts"
	defaultVolume       = 100
	defaultParallel     = 0
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		FFmpeg: FFmpeg{
			AudioArgs: defaultAudioArgs,
			Volume:    defaultVolume,
		},
		Runtime: Runtime{
			Parallel: defaultParallel,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
