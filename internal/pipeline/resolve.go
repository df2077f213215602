package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"orcafacil/internal"
	"orcafacil/internal/catalog"
	"orcafacil/internal/matcher"
	"orcafacil/internal/util"
)

// LearnedStore is the part of the learned-match cache a run reads and writes.
type LearnedStore interface {
	Lookup(ctx context.Context, text string) (string, bool, error)
	Upsert(ctx context.Context, originalText string, item internal.CatalogItem) error
}

// Resolver turns order lines into resolved lines: learned matches first, then
// a single remote call for everything else.
type Resolver struct {
	mu      sync.Mutex
	learned LearnedStore
	matcher matcher.RemoteMatcher
	conv    *ConversionEngine
	newID   func() string
}

func NewResolver(learned LearnedStore, m matcher.RemoteMatcher, conv *ConversionEngine) *Resolver {
	if conv == nil {
		conv = NewConversionEngine(nil)
	}
	return &Resolver{learned: learned, matcher: m, conv: conv, newID: uuid.NewString}
}

func (r *Resolver) Resolve(ctx context.Context, raw string, snap *catalog.Snapshot) ([]internal.ResolvedLine, error) {
	return r.ResolveLines(ctx, ParseLines(raw), snap)
}

type pendingLine struct {
	position int
	text     string
}

// ResolveLines returns one resolved line per input line, in position order.
// When the remote matcher fails nothing is returned and nothing is learned.
func (r *Resolver) ResolveLines(ctx context.Context, lines []internal.OrderLine, snap *catalog.Snapshot) ([]internal.ResolvedLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runID := ulid.Make().String()
	slots := make([]*internal.ResolvedLine, len(lines))
	pending := make([]pendingLine, 0, len(lines))
	seen := make([]bool, len(lines))

	for _, line := range lines {
		if line.Position < 0 || line.Position >= len(lines) || seen[line.Position] {
			return nil, fmt.Errorf("%w: invalid position %d", ErrUnfilledSlot, line.Position)
		}
		seen[line.Position] = true

		productID, ok, err := r.learned.Lookup(ctx, line.Text)
		if err != nil {
			return nil, fmt.Errorf("lookup learned match: %w", err)
		}
		if ok {
			if item, found := snap.ByID(productID); found {
				qty, note := r.conv.Apply(line.Text, line.Quantity)
				slots[line.Position] = &internal.ResolvedLine{
					ID:             r.newID(),
					Quantity:       util.CoerceQty(qty),
					OriginalText:   line.Text,
					MatchedItem:    &item,
					IsLearned:      true,
					ConversionNote: note,
				}
				continue
			}
		}
		pending = append(pending, pendingLine{position: line.Position, text: line.Text})
	}

	hits := len(lines) - len(pending)
	var toLearn []*internal.ResolvedLine

	if len(pending) > 0 {
		if snap.Len() == 0 {
			return nil, ErrEmptyCatalog
		}
		items := snap.Items()
		texts := make([]string, len(pending))
		for i, p := range pending {
			texts[i] = p.text
		}

		results, err := r.matcher.Match(ctx, items, texts)
		if err != nil {
			var rme *matcher.RemoteMatchError
			if !errors.As(err, &rme) {
				err = &matcher.RemoteMatchError{Op: "match", Err: err}
			}
			return nil, err
		}
		if len(results) < len(pending) {
			return nil, &matcher.RemoteMatchError{Op: "match", Err: fmt.Errorf("got %d results for %d lines", len(results), len(pending))}
		}

		for k, p := range pending {
			res := results[k]
			line := &internal.ResolvedLine{
				ID:             r.newID(),
				Quantity:       util.CoerceQty(res.Quantity),
				OriginalText:   p.text,
				ConversionNote: res.ConversionNote,
			}
			if item, ok := snap.At(res.CatalogIndex); ok {
				line.MatchedItem = &item
				line.IsLearned = true
				toLearn = append(toLearn, line)
			}
			slots[p.position] = line
		}
	}

	out := make([]internal.ResolvedLine, len(slots))
	for i, s := range slots {
		if s == nil {
			return nil, fmt.Errorf("%w: position %d", ErrUnfilledSlot, i)
		}
		out[i] = *s
	}

	for _, line := range toLearn {
		if err := r.learned.Upsert(ctx, line.OriginalText, *line.MatchedItem); err != nil {
			return nil, fmt.Errorf("save learned match: %w", err)
		}
	}

	log.Debug().
		Str("run", runID).
		Int("lines", len(lines)).
		Int("cacheHits", hits).
		Int("pending", len(pending)).
		Int("learned", len(toLearn)).
		Msg("order resolved")
	return out, nil
}

// Correct assigns item to line by hand and remembers the choice.
func (r *Resolver) Correct(ctx context.Context, line internal.ResolvedLine, item internal.CatalogItem) (internal.ResolvedLine, error) {
	if err := r.learned.Upsert(ctx, line.OriginalText, item); err != nil {
		return line, fmt.Errorf("save learned match: %w", err)
	}
	line.MatchedItem = &item
	line.IsLearned = true
	return line, nil
}

// Confirm remembers the match a line already carries.
func (r *Resolver) Confirm(ctx context.Context, line internal.ResolvedLine) error {
	if line.MatchedItem == nil {
		return ErrNoMatch
	}
	if err := r.learned.Upsert(ctx, line.OriginalText, *line.MatchedItem); err != nil {
		return fmt.Errorf("save learned match: %w", err)
	}
	return nil
}
