package pipeline

import "errors"

var (
	ErrUnfilledSlot = errors.New("order line left unresolved")
	ErrEmptyCatalog = errors.New("catalog is empty")
	ErrNoMatch      = errors.New("line has no matched item")
)
