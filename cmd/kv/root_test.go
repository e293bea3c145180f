package kv

import (
	"testing"

	"github.com/ValentinKolb/satchel/lib/storer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreClosedWhenCommandFails(t *testing.T) {
	dir := t.TempDir()
	KeyValueCommands.SilenceUsage = true
	KeyValueCommands.SilenceErrors = true
	KeyValueCommands.SetArgs([]string{"set", "answer", "forty-two", "--type", "int", "--backend", "badger", "--file", dir})

	err := KeyValueCommands.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value must be an int")
	assert.Nil(t, closeStore)

	// badger keeps its directory locked until the storer is closed
	bs, err := storer.NewBadgerStorer(storer.BadgerOptions{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, bs.Close())
}
