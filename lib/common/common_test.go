package common

import (
	"testing"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		conf    StoreConfig
		wantErr bool
	}{
		{"file", StoreConfig{Backend: BackendFile, Path: "x.db"}, false},
		{"file without path", StoreConfig{Backend: BackendFile}, true},
		{"badger", StoreConfig{Backend: BackendBadger, Path: "dir"}, false},
		{"memory", StoreConfig{Backend: BackendMemory}, false},
		{"unknown backend", StoreConfig{Backend: "s3"}, true},
		{"encrypter without key", StoreConfig{Backend: BackendMemory, Encrypter: "aes-gcm"}, true},
		{"encrypter with key", StoreConfig{Backend: BackendMemory, Encrypter: "aes-gcm", KeyEnv: "K"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.conf.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	conf := StoreConfig{Name: "settings", Backend: BackendMemory, Serializer: "json", Encrypter: "none", LogLevel: "info"}
	out := conf.String()
	assert.Contains(t, out, "STORE")
	assert.Contains(t, out, "settings")
	assert.Contains(t, out, "json")
	assert.NotContains(t, out, "Path")
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]logger.LogLevel{
		"debug": logger.DEBUG,
		"INFO":  logger.INFO,
		"warn":  logger.WARNING,
		"error": logger.ERROR,
	} {
		got, err := ParseLogLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
	assert.Error(t, InitLoggers("verbose"))
	assert.NoError(t, InitLoggers("error"))
}
