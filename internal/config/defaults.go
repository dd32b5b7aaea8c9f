package config

const (
	defaultDataDir    = "~/.local/share/reclaim"
	defaultUploadsDir = "~/.local/share/reclaim/uploads"
	defaultLogDir     = "~/.local/share/reclaim/logs"

	defaultDescribeBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	defaultDescribeModel          = "gemini-1.5-flash"
	defaultDescribeTimeoutSeconds = 30

	defaultTextBackend              = "token"
	defaultImageBackend             = "gemini"
	defaultSimilarityTimeoutSeconds = 60

	// DefaultTextThreshold is the minimum text similarity a candidate must
	// reach before image comparison runs.
	DefaultTextThreshold = 0.50
	// DefaultImageThreshold is the minimum image similarity percentage for
	// a qualifying match.
	DefaultImageThreshold = 75

	defaultMaxComparisons = 4

	defaultUploadMaxBytes     = 5 << 20
	defaultUploadMinFreeBytes = 64 << 20

	defaultNotifyRequestTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			UploadsDir: defaultUploadsDir,
			LogDir:     defaultLogDir,
		},
		Describe: Describe{
			BaseURL:        defaultDescribeBaseURL,
			Model:          defaultDescribeModel,
			TimeoutSeconds: defaultDescribeTimeoutSeconds,
		},
		Similarity: Similarity{
			TextBackend:    defaultTextBackend,
			ImageBackend:   defaultImageBackend,
			BaseURL:        defaultDescribeBaseURL,
			Model:          defaultDescribeModel,
			TimeoutSeconds: defaultSimilarityTimeoutSeconds,
		},
		Matching: Matching{
			TextThreshold:  DefaultTextThreshold,
			ImageThreshold: DefaultImageThreshold,
			MaxComparisons: defaultMaxComparisons,
		},
		Uploads: Uploads{
			MaxBytes:     defaultUploadMaxBytes,
			MinFreeBytes: defaultUploadMinFreeBytes,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
