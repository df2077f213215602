package matcher

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"

	"orcafacil/internal/util"
)

// Validate decodes a matcher reply of the form
//
//	{"mappedItems":[{"originalRequest":"...","quantity":1,"catalogIndex":0,"conversionLog":null}]}
//
// and rejects it as a whole when any of the first want items breaks the
// schema, when one of their catalogIndex values falls outside
// [-1, catalogLen), or when fewer than want items came back. Items past want
// are dropped unchecked.
func Validate(raw []byte, catalogLen, want int) ([]Result, error) {
	var top map[string]any
	if err := json.Unmarshal(stripFences(raw), &top); err != nil {
		return nil, malformed("invalid json: %w", err)
	}
	value, ok := top["mappedItems"]
	if !ok || value == nil {
		return nil, malformed("missing mappedItems")
	}
	list, ok := value.([]any)
	if !ok {
		return nil, malformed("mappedItems is not a list")
	}
	if len(list) < want {
		return nil, malformed("got %d mapped items for %d lines", len(list), want)
	}

	out := make([]Result, 0, want)
	for i, elem := range list[:want] {
		item, ok := elem.(map[string]any)
		if !ok {
			return nil, malformed("item %d: not an object", i)
		}
		res, err := decodeItem(item, catalogLen)
		if err != nil {
			return nil, malformed("item %d: %w", i, err)
		}
		out = append(out, res)
	}
	return out, nil
}

func decodeItem(item map[string]any, catalogLen int) (Result, error) {
	if _, ok := item["originalRequest"].(string); !ok {
		return Result{}, errors.New("originalRequest must be a string")
	}
	qty, err := decodeQuantity(item["quantity"])
	if err != nil {
		return Result{}, err
	}
	rawIndex, present := item["catalogIndex"]
	if !present {
		return Result{}, errors.New("missing catalogIndex")
	}
	idx, err := decodeIndex(rawIndex, catalogLen)
	if err != nil {
		return Result{}, err
	}
	note, err := decodeNote(item["conversionLog"])
	if err != nil {
		return Result{}, err
	}
	return Result{Quantity: qty, CatalogIndex: idx, ConversionNote: note}, nil
}

// decodeQuantity accepts a number or a numeric string. The value is coerced to
// a positive quantity; only a missing or wrongly typed value is an error.
func decodeQuantity(v any) (float64, error) {
	switch q := v.(type) {
	case float64:
		return util.CoerceQty(q), nil
	case string:
		return util.ParseLeadingQty(q), nil
	case nil:
		return 0, errors.New("missing quantity")
	default:
		return 0, errors.New("quantity must be a number")
	}
}

// decodeIndex maps null to NotFound.
func decodeIndex(v any, catalogLen int) (int, error) {
	if v == nil {
		return NotFound, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, errors.New("catalogIndex must be an integer")
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("catalogIndex %v is not an integer", f)
	}
	if f < NotFound || f >= float64(catalogLen) {
		return 0, fmt.Errorf("catalogIndex %v outside catalog of %d items", f, catalogLen)
	}
	return int(f), nil
}

func decodeNote(v any) (*string, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return &s, nil
	default:
		return nil, errors.New("conversionLog must be a string")
	}
}

// stripFences removes a ```json ... ``` wrapper some models put around JSON.
func stripFences(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "```") {
		return []byte(s)
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(strings.TrimSpace(s))
}
