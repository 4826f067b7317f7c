package payload

import (
	"encoding/json"
	"net/url"
	"strings"

	"resume-maker/internal/shared/apperr"
)

// ErrNameRequired is returned when a resume has no name after trimming.
var ErrNameRequired = apperr.Validation("Name is required")

type Experience struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Dates   string `json:"dates"`
	Desc    string `json:"desc"`
}

type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Dates  string `json:"dates"`
}

// Resume is the normalized content of one resume submission.
type Resume struct {
	Name        string       `json:"name"`
	Role        string       `json:"role"`
	Summary     string       `json:"summary"`
	Skills      []string     `json:"skills"`
	Experiences []Experience `json:"experiences"`
	Education   []Education  `json:"education"`
}

// BuildResume normalizes a resume form. Repeated groups are zipped by
// position, truncated to the shortest field, and rows that are empty after
// trimming are dropped.
func BuildResume(form url.Values) (Resume, error) {
	r := Resume{
		Name:        scalar(form, "name"),
		Role:        scalar(form, "role"),
		Summary:     scalar(form, "summary"),
		Skills:      []string{},
		Experiences: []Experience{},
		Education:   []Education{},
	}
	for _, s := range form["skills[]"] {
		if s = strings.TrimSpace(s); s != "" {
			r.Skills = append(r.Skills, s)
		}
	}
	for _, row := range zip(form, "exp_company[]", "exp_role[]", "exp_dates[]", "exp_desc[]") {
		r.Experiences = append(r.Experiences, Experience{Company: row[0], Role: row[1], Dates: row[2], Desc: row[3]})
	}
	for _, row := range zip(form, "edu_school[]", "edu_degree[]", "edu_dates[]") {
		r.Education = append(r.Education, Education{School: row[0], Degree: row[1], Dates: row[2]})
	}
	if err := r.Validate(); err != nil {
		return Resume{}, err
	}
	return r, nil
}

// Validate checks the invariants of a resume, including ones read back from
// a shared preview store.
func (r Resume) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	return validateSchema(resumeSchema, r)
}

// MarshalJSON writes missing lists as empty arrays.
func (r Resume) MarshalJSON() ([]byte, error) {
	type plain Resume
	p := plain(r)
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experiences == nil {
		p.Experiences = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	return json.Marshal(p)
}

// FileName is the attachment name for a resume rendered in style.
func (r Resume) FileName(style string) string {
	return attachmentName(r.Name, style, "resume")
}

func scalar(form url.Values, key string) string {
	return strings.TrimSpace(form.Get(key))
}

// zip returns trimmed rows built from the aligned values of keys. A row is
// kept when at least one cell is non-empty.
func zip(form url.Values, keys ...string) [][]string {
	n := -1
	for _, k := range keys {
		if l := len(form[k]); n < 0 || l < n {
			n = l
		}
	}
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(keys))
		empty := true
		for j, k := range keys {
			row[j] = strings.TrimSpace(form[k][i])
			if row[j] != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows
}
