package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	previewsTotal  = newCounterVec("kind")
	downloadsTotal = newCounterVec("kind")

	previewMissesTotal  atomic.Uint64
	renderFailuresTotal atomic.Uint64

	renderDuration = newHistogram(100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000)
)

// IncPreview counts a rendered preview of the given document kind.
func IncPreview(kind string) {
	previewsTotal.Inc(kind)
}

// IncDownload counts a delivered PDF of the given document kind.
func IncDownload(kind string) {
	downloadsTotal.Inc(kind)
}

// IncPreviewMiss counts downloads with an unknown or expired token.
func IncPreviewMiss() {
	previewMissesTotal.Add(1)
}

// IncRenderFailure counts PDF conversions that returned an error.
func IncRenderFailure() {
	renderFailuresTotal.Add(1)
}

// ObserveRenderDurationMs records a PDF conversion duration in milliseconds.
func ObserveRenderDurationMs(ms float64) {
	renderDuration.Observe(max(ms, 0))
}

// Handler serves Render as Prometheus text.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

func Render() string {
	var sb strings.Builder
	e := exposition{w: &sb}
	e.counterVec("document_previews_total", "Total document previews rendered", previewsTotal)
	e.counterVec("pdf_downloads_total", "Total PDFs delivered", downloadsTotal)
	e.counter("preview_misses_total", "Downloads with an unknown or expired token", previewMissesTotal.Load())
	e.counter("pdf_render_failures_total", "PDF conversions that failed", renderFailuresTotal.Load())
	e.histogram("pdf_render_duration_ms", "PDF conversion duration in milliseconds", renderDuration)
	return sb.String()
}

type counterVec struct {
	mu     sync.Mutex
	label  string
	values map[string]uint64
}

func newCounterVec(label string) *counterVec {
	return &counterVec{label: label, values: make(map[string]uint64)}
}

func (v *counterVec) Inc(value string) {
	v.mu.Lock()
	v.values[value]++
	v.mu.Unlock()
}

type labelled struct {
	value string
	n     uint64
}

func (v *counterVec) rows() []labelled {
	v.mu.Lock()
	out := make([]labelled, 0, len(v.values))
	for k, n := range v.values {
		out = append(out, labelled{k, n})
	}
	v.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].value < out[j].value })
	return out
}

// histogram keeps cumulative counts: counts[i] is observations <= bounds[i].
type histogram struct {
	bounds []float64

	mu     sync.Mutex
	counts []uint64
	total  uint64
	sum    float64
}

func newHistogram(bounds ...float64) *histogram {
	sort.Float64s(bounds)
	return &histogram{bounds: bounds, counts: make([]uint64, len(bounds))}
}

func (h *histogram) Observe(v float64) {
	first := sort.SearchFloat64s(h.bounds, v)
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := first; i < len(h.counts); i++ {
		h.counts[i]++
	}
	h.total++
	h.sum += v
}

type exposition struct {
	w io.Writer
}

func (e exposition) header(name, help, kind string) {
	fmt.Fprintf(e.w, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
}

func (e exposition) counter(name, help string, n uint64) {
	e.header(name, help, "counter")
	fmt.Fprintf(e.w, "%s %d\n", name, n)
}

func (e exposition) counterVec(name, help string, v *counterVec) {
	e.header(name, help, "counter")
	for _, row := range v.rows() {
		fmt.Fprintf(e.w, "%s{%s=%q} %d\n", name, v.label, row.value, row.n)
	}
}

func (e exposition) histogram(name, help string, h *histogram) {
	h.mu.Lock()
	counts := append([]uint64(nil), h.counts...)
	total, sum := h.total, h.sum
	h.mu.Unlock()

	e.header(name, help, "histogram")
	for i, bound := range h.bounds {
		fmt.Fprintf(e.w, "%s_bucket{le=%q} %d\n", name, num(bound), counts[i])
	}
	fmt.Fprintf(e.w, "%s_bucket{le=\"+Inf\"} %d\n", name, total)
	fmt.Fprintf(e.w, "%s_sum %s\n%s_count %d\n", name, num(sum), name, total)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
