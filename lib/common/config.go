package common

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Store configuration struct
// --------------------------------------------------------------------------

type StorerBackend string

const (
	BackendFile   StorerBackend = "file"
	BackendBadger StorerBackend = "badger"
	BackendMemory StorerBackend = "memory"
)

// StoreConfig holds all parameters needed to open a local store from the command line.
type StoreConfig struct {
	// Name identifies the store in logs and metrics
	Name string

	// Storer settings
	Backend StorerBackend
	Path    string

	// Pipeline settings
	Serializer string
	Encrypter  string

	// KeyEnv is the name of the environment variable holding the key (hex) or passphrase
	KeyEnv string

	// Logging configuration
	LogLevel string
}

// Validate checks the configuration for obvious mistakes
func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case BackendFile, BackendBadger:
		if c.Path == "" {
			return fmt.Errorf("backend %s requires a path", c.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid backend: %s (expected one of: file, badger, memory)", c.Backend)
	}
	if c.Encrypter != "" && c.Encrypter != "none" && c.KeyEnv == "" {
		return fmt.Errorf("encrypter %s requires a key environment variable", c.Encrypter)
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *StoreConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Store")
	addField("Name", c.Name)

	addSection("Storage")
	addField("Backend", string(c.Backend))
	if c.Backend != BackendMemory {
		addField("Path", c.Path)
	}

	addSection("Pipeline")
	addField("Serializer", c.Serializer)
	addField("Encrypter", c.Encrypter)
	if c.Encrypter != "" && c.Encrypter != "none" {
		addField("Key Variable", c.KeyEnv)
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
