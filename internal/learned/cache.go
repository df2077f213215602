package learned

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"orcafacil/internal"
	"orcafacil/internal/storage"
	"orcafacil/internal/util"
)

const storeKey = "learned_matches"

var ErrImportInvalid = errors.New("learned import payload has no valid records")

// Cache maps normalized order text to the catalog item a user confirmed for it.
// The whole list lives in one document and every mutation rewrites it.
type Cache struct {
	mu  sync.Mutex
	kv  storage.KV
	now func() time.Time
}

func New(kv storage.KV) *Cache {
	return &Cache{kv: kv, now: time.Now}
}

func Normalize(text string) string {
	return util.NormalizeText(text)
}

func (c *Cache) Lookup(ctx context.Context, text string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load(ctx)
	if err != nil {
		return "", false, err
	}
	key := Normalize(text)
	for _, e := range entries {
		if e.OriginalText == key {
			return e.ProductID, true, nil
		}
	}
	return "", false, nil
}

// Upsert replaces any entry for the same normalized text with a fresh one
// carrying the item's current description.
func (c *Cache) Upsert(ctx context.Context, originalText string, item internal.CatalogItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load(ctx)
	if err != nil {
		return err
	}
	key := Normalize(originalText)
	entries = without(entries, key)
	entries = append(entries, internal.LearnedMatch{
		OriginalText:       key,
		ProductID:          item.ID,
		ProductDescription: item.Description,
		CreatedAt:          c.now().UTC(),
	})
	return c.save(ctx, entries)
}

// Delete reports whether an entry was removed.
func (c *Cache) Delete(ctx context.Context, text string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	kept := without(entries, Normalize(text))
	if len(kept) == len(entries) {
		return false, nil
	}
	return true, c.save(ctx, kept)
}

func (c *Cache) Entries(ctx context.Context) ([]internal.LearnedMatch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

func (c *Cache) Export(ctx context.Context) ([]byte, error) {
	entries, err := c.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(entries, "", "  ")
}

type importRecord struct {
	OriginalText       string `json:"originalText"`
	ProductID          string `json:"productId"`
	ProductDescription string `json:"productDescription"`
	CreatedAt          string `json:"createdAt"`
}

// Import merges an exported list into the cache. Imported records win over
// existing ones with the same key; new keys are appended. It returns the
// number of valid records taken from payload.
func (c *Cache) Import(ctx context.Context, payload []byte) (int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return 0, ErrImportInvalid
	}

	valid := make([]internal.LearnedMatch, 0, len(raw))
	for _, elem := range raw {
		var rec importRecord
		if err := json.Unmarshal(elem, &rec); err != nil {
			continue
		}
		m, ok := c.fromRecord(rec)
		if !ok {
			continue
		}
		valid = append(valid, m)
	}
	if len(valid) == 0 {
		return 0, ErrImportInvalid
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load(ctx)
	if err != nil {
		return 0, err
	}
	for _, m := range valid {
		replaced := false
		for i := range entries {
			if entries[i].OriginalText == m.OriginalText {
				entries[i] = m
				replaced = true
				break
			}
		}
		if !replaced {
			entries = append(entries, m)
		}
	}
	if err := c.save(ctx, entries); err != nil {
		return 0, err
	}
	return len(valid), nil
}

func (c *Cache) fromRecord(rec importRecord) (internal.LearnedMatch, bool) {
	key := Normalize(rec.OriginalText)
	id := strings.TrimSpace(rec.ProductID)
	desc := strings.TrimSpace(rec.ProductDescription)
	if key == "" || id == "" || desc == "" {
		return internal.LearnedMatch{}, false
	}
	created, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(rec.CreatedAt))
	if err != nil {
		created = c.now().UTC()
	}
	return internal.LearnedMatch{OriginalText: key, ProductID: id, ProductDescription: desc, CreatedAt: created}, true
}

// load must be called with mu held. A stored document that is not a valid
// list is dropped and the cache starts over empty.
func (c *Cache) load(ctx context.Context) ([]internal.LearnedMatch, error) {
	blob, err := c.kv.Get(ctx, storeKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []internal.LearnedMatch
	if err := json.Unmarshal(blob, &entries); err != nil {
		log.Warn().Err(err).Str("key", storeKey).Msg("learned cache corrupt; clearing")
		if err := c.kv.Delete(ctx, storeKey); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return entries, nil
}

func (c *Cache) save(ctx context.Context, entries []internal.LearnedMatch) error {
	if entries == nil {
		entries = []internal.LearnedMatch{}
	}
	blob, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, storeKey, blob)
}

func without(entries []internal.LearnedMatch, key string) []internal.LearnedMatch {
	out := make([]internal.LearnedMatch, 0, len(entries))
	for _, e := range entries {
		if e.OriginalText != key {
			out = append(out, e)
		}
	}
	return out
}
