package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileConfig represents the structure of the configuration file
type FileConfig struct {
	History struct {
		User   string `yaml:"user"`
		Indent *int   `yaml:"indent"`
	} `yaml:"history"`

	Watch struct {
		RootDir   string `yaml:"root_dir"`
		Extension string `yaml:"extension"`
		Recursive *bool  `yaml:"recursive"`
	} `yaml:"watch"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filePath string) (*Config, error) {
	config := Default()

	// If no config file specified, return default config
	if filePath == "" {
		return config, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fileConfig FileConfig
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// History settings
	if fileConfig.History.User != "" {
		config.History.User = fileConfig.History.User
	}
	if fileConfig.History.Indent != nil {
		if *fileConfig.History.Indent < 0 {
			return nil, fmt.Errorf("invalid history indent: %d", *fileConfig.History.Indent)
		}
		config.History.Indent = *fileConfig.History.Indent
	}

	// Watch settings
	if fileConfig.Watch.RootDir != "" {
		config.Watch.RootDir = fileConfig.Watch.RootDir
	}
	if ext := fileConfig.Watch.Extension; ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		config.Watch.Extension = ext
	}
	if fileConfig.Watch.Recursive != nil {
		config.Watch.Recursive = *fileConfig.Watch.Recursive
	}

	return config, nil
}

// SaveDefaultConfig saves a default configuration file
func SaveDefaultConfig(filePath string) error {
	defaults := Default()

	var fileConfig FileConfig
	fileConfig.History.User = defaults.History.User
	fileConfig.History.Indent = &defaults.History.Indent
	fileConfig.Watch.RootDir = defaults.Watch.RootDir
	fileConfig.Watch.Extension = defaults.Watch.Extension
	fileConfig.Watch.Recursive = &defaults.Watch.Recursive

	data, err := yaml.Marshal(fileConfig)
	if err != nil {
		return fmt.Errorf("error creating default config: %w", err)
	}

	// Add helpful comments
	yamlWithComments := "# contentlog configuration\n" +
		"# history.user is recorded on events when --user is not given\n\n" +
		string(data)

	if err := os.WriteFile(filePath, []byte(yamlWithComments), 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
