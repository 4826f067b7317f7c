package documents

import (
	"context"
	"errors"
	"time"

	"resume-maker/internal/pdf"
	"resume-maker/internal/preview"
	"resume-maker/internal/render"
	"resume-maker/internal/shared/apperr"
	"resume-maker/internal/shared/metrics"
	"resume-maker/internal/shared/telemetry"
	"resume-maker/internal/styles"
)

// ErrRenderFailed is returned when the PDF engine fails.
var ErrRenderFailed = apperr.New(apperr.KindRenderFailed, "PDF render failed")

// Payload is a document body that can be re-validated and named.
type Payload interface {
	Validate() error
	FileName(style string) string
}

// Preview is a rendered HTML preview and the token that downloads it.
type Preview struct {
	Token string
	Style styles.Style
	HTML  []byte
}

// File is a finished PDF attachment.
type File struct {
	Name  string
	Style styles.Style
	Body  []byte
}

// Service previews and downloads one kind of document.
type Service[P Payload] struct {
	Styles    *styles.Registry
	Cache     *preview.Cache[P]
	Views     *render.Renderer
	Converter pdf.Converter
	// DownloadPath is the route prefix a token is appended to.
	DownloadPath string
}

func (s *Service[P]) kind() string {
	return string(s.Styles.Kind())
}

// Style resolves a style key against the registry.
func (s *Service[P]) Style(key string) (styles.Style, error) {
	return s.Styles.Lookup(key)
}

// Preview stores payload under a fresh token and renders the HTML preview.
// Payloads that would not download are rejected before a token is issued.
func (s *Service[P]) Preview(ctx context.Context, owner string, style styles.Style, payload P) (Preview, error) {
	if err := payload.Validate(); err != nil {
		return Preview{}, err
	}
	token, err := s.Cache.Issue(ctx, owner, style.Key, payload)
	if err != nil {
		return Preview{}, err
	}
	out, err := s.Views.Document(style, render.DocumentData{
		Style:       style,
		Data:        payload,
		Token:       token,
		DownloadURL: s.DownloadPath + token,
	})
	if err != nil {
		return Preview{}, err
	}
	metrics.IncPreview(s.kind())
	return Preview{Token: token, Style: style, HTML: out}, nil
}

// Download resolves token and converts the stored document to PDF.
// Tokens issued to another owner read as not found.
func (s *Service[P]) Download(ctx context.Context, owner, token string) (File, error) {
	entry, err := s.Cache.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, preview.ErrNotFound) {
			metrics.IncPreviewMiss()
		}
		return File{}, err
	}
	if entry.Owner != owner {
		metrics.IncPreviewMiss()
		return File{}, preview.ErrNotFound
	}
	if err := entry.Payload.Validate(); err != nil {
		return File{}, apperr.Wrap(apperr.KindInternal, "stored payload is invalid", err)
	}
	style, err := s.Styles.Lookup(entry.Style)
	if err != nil {
		return File{}, err
	}

	html, err := s.Views.Document(style, render.DocumentData{Style: style, Data: entry.Payload, IsPDF: true})
	if err != nil {
		return File{}, err
	}

	start := time.Now()
	body, err := s.Converter.Convert(ctx, html)
	metrics.ObserveRenderDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncRenderFailure()
		telemetry.Error("pdf.render_failed", map[string]any{
			"kind":  s.kind(),
			"style": style.Key,
			"error": err,
		})
		return File{}, apperr.Wrap(ErrRenderFailed.Kind, ErrRenderFailed.Message, err)
	}
	metrics.IncDownload(s.kind())
	return File{Name: entry.Payload.FileName(style.Key), Style: style, Body: body}, nil
}
