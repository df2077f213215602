package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"orcafacil/internal"
	"orcafacil/internal/storage"
)

const storeKey = "catalog"

var ErrNoCatalog = errors.New("no catalog ingested")

type storedCatalog struct {
	UpdatedAt time.Time              `json:"updatedAt"`
	Items     []internal.CatalogItem `json:"items"`
}

// Save replaces the persisted catalog with items.
func Save(ctx context.Context, kv storage.KV, items []internal.CatalogItem) error {
	blob, err := json.Marshal(storedCatalog{UpdatedAt: time.Now().UTC(), Items: items})
	if err != nil {
		return err
	}
	return kv.Set(ctx, storeKey, blob)
}

// Load returns the last saved catalog and the time it was saved.
func Load(ctx context.Context, kv storage.KV) (*Snapshot, time.Time, error) {
	blob, err := kv.Get(ctx, storeKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, time.Time{}, ErrNoCatalog
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	var stored storedCatalog
	if err := json.Unmarshal(blob, &stored); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode stored catalog: %w", err)
	}
	return NewSnapshot(stored.Items), stored.UpdatedAt, nil
}
