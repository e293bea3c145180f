package util

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/ValentinKolb/satchel/lib/common"
	"github.com/ValentinKolb/satchel/lib/encrypter"
	"github.com/ValentinKolb/satchel/lib/events"
	"github.com/ValentinKolb/satchel/lib/serializer"
	"github.com/ValentinKolb/satchel/lib/store"
	"github.com/ValentinKolb/satchel/lib/store/lstore"
	"github.com/ValentinKolb/satchel/lib/storer"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStoreFlags adds the flags describing a store to a command
func SetupStoreFlags(cmd *cobra.Command) {
	key := "file"
	cmd.PersistentFlags().String(key, "satchel.db", WrapString("Path of the store file (backend file) or directory (backend badger)"))

	key = "backend"
	cmd.PersistentFlags().String(key, "file", WrapString("Storage backend (file, badger, memory)"))

	key = "serializer"
	cmd.PersistentFlags().String(key, "gob", WrapString("Serializer of the snapshots (gob, json, binary, protobuf, gzip, base64). gzip wraps binary, base64 wraps json"))

	key = "encrypter"
	cmd.PersistentFlags().String(key, "none", WrapString("Encrypter of the snapshots (none, aes-gcm, chacha20, passphrase)"))

	key = "key-env"
	cmd.PersistentFlags().String(key, "SATCHEL_KEY", WrapString("Environment variable holding the key (hex) or passphrase. Other secrets are stretched to a key with HKDF"))

	key = "name"
	cmd.PersistentFlags().String(key, "default", WrapString("Name of the store, used in logs, metrics and key derivation"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// InitConfig loads .env files and initializes viper to read SATCHEL_<FLAG> variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("satchel")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetStoreConfig reads the store configuration from viper
func GetStoreConfig() *common.StoreConfig {
	return &common.StoreConfig{
		Name:       viper.GetString("name"),
		Backend:    common.StorerBackend(viper.GetString("backend")),
		Path:       viper.GetString("file"),
		Serializer: viper.GetString("serializer"),
		Encrypter:  viper.GetString("encrypter"),
		KeyEnv:     viper.GetString("key-env"),
		LogLevel:   viper.GetString("log-level"),
	}
}

// GetSerializer creates a serializer by name
func GetSerializer(name string) (serializer.ISerializer, error) {
	switch name {
	case "gob", "":
		return serializer.NewGOBSerializer(), nil
	case "json":
		return serializer.NewJSONSerializer(), nil
	case "binary":
		return serializer.NewBinarySerializer(), nil
	case "protobuf":
		return serializer.NewProtobufSerializer(), nil
	case "gzip":
		return serializer.NewGzipSerializer(serializer.NewBinarySerializer()), nil
	case "base64":
		return serializer.NewBase64Serializer(serializer.NewJSONSerializer()), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", name)
	}
}

// GetEncrypter creates the encrypter of the configuration. The secret is read from the
// environment variable conf.KeyEnv. For aes-gcm and chacha20 a hex encoded key of a valid
// length is used as is, any other secret is stretched to 32 bytes with HKDF (info: store name).
func GetEncrypter(conf *common.StoreConfig) (encrypter.IEncrypter, error) {
	if conf.Encrypter == "" || conf.Encrypter == "none" {
		return encrypter.NewNoneEncrypter(), nil
	}

	secret := os.Getenv(conf.KeyEnv)
	if secret == "" {
		return nil, fmt.Errorf("encrypter %s: environment variable %s is empty", conf.Encrypter, conf.KeyEnv)
	}

	switch conf.Encrypter {
	case "passphrase":
		return encrypter.NewPassphraseEncrypter([]byte(secret), encrypter.AlgChaCha20)
	case "aes-gcm", "chacha20":
		alg := encrypter.Algorithm(conf.Encrypter)
		key, err := keyFromSecret(secret, conf.Name)
		if err != nil {
			return nil, err
		}
		// the store name is bound to the ciphertext
		return encrypter.NewEncrypter(alg, key, []byte(conf.Name))
	default:
		return nil, fmt.Errorf("invalid encrypter %s", conf.Encrypter)
	}
}

func keyFromSecret(secret, name string) ([]byte, error) {
	if key, err := hex.DecodeString(secret); err == nil && len(key) == 32 {
		return key, nil
	}
	return encrypter.DeriveKey([]byte(secret), []byte("satchel/"+name), 32)
}

// GetStorer creates the storer of the configuration. The returned function releases it.
func GetStorer(conf *common.StoreConfig) (storer.IStorer, func() error, error) {
	noop := func() error { return nil }
	switch conf.Backend {
	case common.BackendFile:
		return storer.NewFileStorer(conf.Path), noop, nil
	case common.BackendBadger:
		s, err := storer.NewBadgerStorer(storer.BadgerOptions{Dir: conf.Path})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case common.BackendMemory:
		return storer.NewMemoryStorer(), noop, nil
	default:
		return nil, nil, fmt.Errorf("invalid backend %s", conf.Backend)
	}
}

// OpenStore validates the configuration and opens the store it describes. Load and save
// failures are printed to stderr. If the persisted snapshot can not be loaded, the returned
// store rejects all mutations. The returned function closes the store and its storer.
func OpenStore(conf *common.StoreConfig) (store.IStore, func() error, error) {
	if err := conf.Validate(); err != nil {
		return nil, nil, err
	}

	ser, err := GetSerializer(conf.Serializer)
	if err != nil {
		return nil, nil, err
	}
	enc, err := GetEncrypter(conf)
	if err != nil {
		return nil, nil, err
	}
	st, closeStorer, err := GetStorer(conf)
	if err != nil {
		return nil, nil, err
	}

	s, err := lstore.NewLocalStore(lstore.Options{
		Name:       conf.Name,
		Storer:     st,
		Serializer: ser,
		Encrypter:  enc,
		Listeners: []events.Listener{func(e events.Event) {
			if e.Err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", e.Type, e.Err)
			}
		}},
	})
	if err != nil {
		_ = closeStorer()
		return nil, nil, err
	}

	closeAll := func() error {
		if err := s.Close(); err != nil {
			return err
		}
		return closeStorer()
	}

	if meta, ok := s.GetInfo().Metadata.(*lstore.Metadata); ok && meta.Store.LoadErrors > 0 {
		return readOnlyStore{IStore: s, name: conf.Name}, closeAll, nil
	}
	return s, closeAll, nil
}

// readOnlyStore guards a store whose persisted snapshot failed to load (e.g. wrong key).
// The store started empty, so the next save would replace the unreadable snapshot.
type readOnlyStore struct {
	store.IStore
	name string
}

func (r readOnlyStore) refuse() error {
	return store.NewError(store.RetCInvalidOperation,
		fmt.Sprintf("store %s could not be loaded, refusing to overwrite it (check --key-env, --encrypter and --serializer)", r.name))
}

func (r readOnlyStore) Set(string, any) error { return r.refuse() }

func (r readOnlyStore) SetIfAbsent(string, any) (bool, error) { return false, r.refuse() }

func (r readOnlyStore) Remove(string) (bool, error) { return false, r.refuse() }

func (r readOnlyStore) Clear() error { return r.refuse() }
