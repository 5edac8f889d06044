package config

import "github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/output"

// CLIConfig is the configuration for filecabinet-cli.
type CLIConfig struct {
	DefaultServer string `yaml:"default_server"`
	DefaultOutput string `yaml:"default_output"`

	// Servers maps short aliases to server URLs, e.g. "prod: https://cab.example.com".
	Servers map[string]string `yaml:"servers"`

	HistoryFile string `yaml:"history_file"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: "http://127.0.0.1:5080",
		DefaultOutput: string(output.FormatTable),
		Servers:       make(map[string]string),
	}
}

// ResolveServer maps an alias to its URL. Unknown names and empty input
// fall back to the value itself or DefaultServer.
func (c *CLIConfig) ResolveServer(nameOrURL string) string {
	if nameOrURL == "" {
		nameOrURL = c.DefaultServer
	}
	if url, ok := c.Servers[nameOrURL]; ok {
		return url
	}
	return nameOrURL
}
