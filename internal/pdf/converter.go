package pdf

import (
	"context"
	"errors"
)

// ErrEmptyDocument is returned when a converter produced no pages.
var ErrEmptyDocument = errors.New("pdf has no pages")

// Converter turns a complete HTML document into PDF bytes.
type Converter interface {
	Convert(ctx context.Context, html []byte) ([]byte, error)
}
