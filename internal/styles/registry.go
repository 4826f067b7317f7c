package styles

import (
	"resume-maker/internal/shared/apperr"
)

// Kind names a document family. Each family has its own registry.
type Kind string

const (
	KindResume      Kind = "resume"
	KindCoverLetter Kind = "cover_letter"
)

// ErrUnknownStyle is returned for keys outside a registry.
var ErrUnknownStyle = apperr.NotFound("Template not found")

// Style is one registered visual variant.
type Style struct {
	Kind    Kind
	Key     string
	Name    string
	Premium bool
}

// TemplateName is the html/template name rendering this style.
func (s Style) TemplateName() string {
	return string(s.Kind) + "/" + s.Key
}

// Registry is a closed, ordered set of styles for one document kind.
type Registry struct {
	kind  Kind
	order []string
	byKey map[string]Style
}

func newRegistry(kind Kind, entries ...Style) *Registry {
	r := &Registry{kind: kind, byKey: make(map[string]Style, len(entries))}
	for _, e := range entries {
		e.Kind = kind
		r.order = append(r.order, e.Key)
		r.byKey[e.Key] = e
	}
	return r
}

// Kind returns the document kind served by the registry.
func (r *Registry) Kind() Kind { return r.kind }

// Lookup returns the style registered under key.
func (r *Registry) Lookup(key string) (Style, error) {
	s, ok := r.byKey[key]
	if !ok {
		return Style{}, ErrUnknownStyle
	}
	return s, nil
}

// All returns every style in registration order.
func (r *Registry) All() []Style {
	out := make([]Style, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byKey[k])
	}
	return out
}

var (
	Resume = newRegistry(KindResume,
		Style{Key: "modern", Name: "Modern Resume"},
		Style{Key: "minimal", Name: "Minimal Resume"},
		Style{Key: "creative", Name: "Creative Resume", Premium: true},
		Style{Key: "ats_friendly", Name: "ATS Friendly Resume"},
		Style{Key: "ats_modern", Name: "ATS Modern Resume"},
		Style{Key: "premium_modern_pro", Name: "Premium Modern Pro Resume"},
	)

	CoverLetter = newRegistry(KindCoverLetter,
		Style{Key: "classic", Name: "Classic Cover Letter"},
		Style{Key: "modern", Name: "Modern Cover Letter"},
		Style{Key: "creative", Name: "Creative Cover Letter"},
	)
)

// DefaultCoverLetter is used when a cover letter form omits its style.
const DefaultCoverLetter = "classic"
