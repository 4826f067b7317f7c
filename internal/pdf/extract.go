package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PageCount parses data and returns its number of pages.
func PageCount(data []byte) (int, error) {
	r, err := open(data)
	if err != nil {
		return 0, err
	}
	return r.NumPage(), nil
}

// ExtractText returns the plain text of every page in data.
func ExtractText(data []byte) (string, error) {
	r, err := open(data)
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Verify rejects output that is not a PDF or has no pages.
func Verify(data []byte) error {
	n, err := PageCount(data)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEmptyDocument
	}
	return nil
}

func open(data []byte) (r *pdf.Reader, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, errors.New("missing PDF signature")
	}
	// The reader panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("parse pdf: %v", rec)
		}
	}()
	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}
	return r, nil
}
