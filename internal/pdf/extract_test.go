package pdf

import (
	"context"
	"strings"
	"testing"

	"resume-maker/internal/pdf/pdftest"
)

func TestExtractTextFromGeneratedPDF(t *testing.T) {
	data := pdftest.Build([]string{"Jane Doe", "Engineer (Go)", "Built C:\\tools"})
	if err := Verify(data); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	text, err := ExtractText(data)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	for _, want := range []string{"Jane Doe", "Engineer (Go)", "Built C:\\tools"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in extracted text %q", want, text)
		}
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("<html></html>"), []byte("%PDF-1.4 truncated")} {
		if err := Verify(data); err == nil {
			t.Fatalf("expected Verify(%q) to fail", data)
		}
	}
}

func TestTestConverterKeepsVisibleText(t *testing.T) {
	doc := []byte(`<!doctype html><html><head><title>ignored</title><style>body{color:red}</style></head>
<body><h1>  Jane   Doe </h1><script>var x = "hidden";</script><p>Senior Engineer</p></body></html>`)
	out, err := pdftest.Converter{}.Convert(context.Background(), doc)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	text, err := ExtractText(out)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") || !strings.Contains(text, "Senior Engineer") {
		t.Fatalf("missing visible text in %q", text)
	}
	if strings.Contains(text, "hidden") || strings.Contains(text, "color:red") {
		t.Fatalf("raw text leaked into %q", text)
	}
}
