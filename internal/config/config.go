package config

// HistoryConfig holds event recording options
type HistoryConfig struct {
	User   string
	Indent int
}

// WatchConfig holds options for the document watcher
type WatchConfig struct {
	RootDir   string
	Extension string
	Recursive bool
}

// Config holds the application configuration
type Config struct {
	History HistoryConfig
	Watch   WatchConfig
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		History: HistoryConfig{
			User:   "",
			Indent: 2,
		},
		Watch: WatchConfig{
			RootDir:   ".",
			Extension: ".json",
			Recursive: true,
		},
	}
}
