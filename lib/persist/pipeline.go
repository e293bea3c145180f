package persist

import (
	"context"
	"fmt"

	"github.com/ValentinKolb/satchel/lib/encrypter"
	"github.com/ValentinKolb/satchel/lib/serializer"
	"github.com/ValentinKolb/satchel/lib/storer"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("persist")

// Pipeline bundles the three stages data passes on its way to and from the storage
type Pipeline struct {
	Serializer serializer.ISerializer
	Encrypter  encrypter.IEncrypter
	Storer     storer.IStorer
}

// Load runs retrieve -> decrypt -> deserialize. Nothing persisted yet yields an empty map.
// Errors are wrapped with the name of the failing stage.
func (p Pipeline) Load() (map[string]any, error) {
	raw, err := p.Storer.Retrieve()
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	if len(raw) == 0 {
		return map[string]any{}, nil
	}

	plain, err := p.Encrypter.Decrypt(raw)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	entries, err := p.Serializer.Deserialize(plain)
	if err != nil {
		return nil, fmt.Errorf("deserialize: %w", err)
	}
	if entries == nil {
		entries = map[string]any{}
	}
	return entries, nil
}

// Save runs serialize -> encrypt -> store and returns the number of bytes handed to the storer.
// Errors are wrapped with the name of the failing stage.
func (p Pipeline) Save(ctx context.Context, snapshot map[string]any) (int, error) {
	plain, err := p.Serializer.Serialize(snapshot)
	if err != nil {
		return 0, fmt.Errorf("serialize: %w", err)
	}

	raw, err := p.Encrypter.Encrypt(plain)
	if err != nil {
		return 0, fmt.Errorf("encrypt: %w", err)
	}

	if err := p.Storer.Store(ctx, raw); err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}
	return len(raw), nil
}
