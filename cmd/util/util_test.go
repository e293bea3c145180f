package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/satchel/lib/common"
	"github.com/ValentinKolb/satchel/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	out := WrapString("a very long help text that certainly does not fit on a single line of fifty characters")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
}

func TestGetSerializer(t *testing.T) {
	for _, name := range []string{"gob", "json", "binary", "protobuf", "gzip", "base64"} {
		s, err := GetSerializer(name)
		require.NoError(t, err, name)

		data, err := s.Serialize(map[string]any{"k": "v"})
		require.NoError(t, err, name)
		m, err := s.Deserialize(data)
		require.NoError(t, err, name)
		assert.Equal(t, "v", m["k"], name)
	}

	_, err := GetSerializer("xml")
	assert.Error(t, err)
}

func TestGetEncrypter(t *testing.T) {
	t.Setenv("SATCHEL_TEST_KEY", "a secret that is not hex")

	for _, name := range []string{"none", "aes-gcm", "chacha20", "passphrase"} {
		enc, err := GetEncrypter(&common.StoreConfig{Name: "test", Encrypter: name, KeyEnv: "SATCHEL_TEST_KEY"})
		require.NoError(t, err, name)

		ct, err := enc.Encrypt([]byte("payload"))
		require.NoError(t, err, name)
		pt, err := enc.Decrypt(ct)
		require.NoError(t, err, name)
		assert.Equal(t, []byte("payload"), pt, name)
	}

	_, err := GetEncrypter(&common.StoreConfig{Encrypter: "aes-gcm", KeyEnv: "SATCHEL_TEST_UNSET"})
	assert.Error(t, err)
	_, err = GetEncrypter(&common.StoreConfig{Encrypter: "rot13", KeyEnv: "SATCHEL_TEST_KEY"})
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	conf := &common.StoreConfig{
		Name:       "cli",
		Backend:    common.BackendBadger,
		Path:       t.TempDir(),
		Serializer: "protobuf",
		Encrypter:  "none",
	}

	s, closeAll, err := OpenStore(conf)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, closeAll())

	s, closeAll, err = OpenStore(conf)
	require.NoError(t, err)
	defer closeAll()
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, _, err = OpenStore(&common.StoreConfig{Backend: "tape"})
	assert.Error(t, err)
}

func TestOpenStoreRefusesWritesAfterLoadFailure(t *testing.T) {
	conf := &common.StoreConfig{
		Name:       "cli",
		Backend:    common.BackendFile,
		Path:       filepath.Join(t.TempDir(), "secret.db"),
		Serializer: "json",
		Encrypter:  "aes-gcm",
		KeyEnv:     "SATCHEL_TEST_KEY",
	}

	t.Setenv("SATCHEL_TEST_KEY", "the right key")
	s, closeAll, err := OpenStore(conf)
	require.NoError(t, err)
	require.NoError(t, s.Set("token", "abc"))
	require.NoError(t, closeAll())
	before, err := os.ReadFile(conf.Path)
	require.NoError(t, err)

	t.Setenv("SATCHEL_TEST_KEY", "the wrong key")
	s, closeAll, err = OpenStore(conf)
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())

	err = s.Set("token", "overwritten")
	var storeErr *store.Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, store.RetCInvalidOperation, storeErr.Code)
	_, err = s.Remove("token")
	assert.Error(t, err)
	assert.Error(t, s.Clear())
	_, err = s.SetIfAbsent("other", "x")
	assert.Error(t, err)
	require.NoError(t, closeAll())

	after, err := os.ReadFile(conf.Path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "the unreadable snapshot must not be replaced")

	t.Setenv("SATCHEL_TEST_KEY", "the right key")
	s, closeAll, err = OpenStore(conf)
	require.NoError(t, err)
	defer closeAll()
	v, ok := s.Get("token")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}
