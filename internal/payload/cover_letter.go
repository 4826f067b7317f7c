package payload

import (
	"net/url"
	"strings"
	"time"

	"resume-maker/internal/shared/apperr"
)

const (
	defaultHiringManager = "Hiring Manager"
	// DateLayout renders the letter date, e.g. "March 04, 2026".
	DateLayout = "January 02, 2006"
)

// ErrCoverLetterFields is returned when name, company or position is blank.
var ErrCoverLetterFields = apperr.Validation("Name, company, and position are required.")

// CoverLetter is the normalized content of one cover letter submission.
type CoverLetter struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Company       string `json:"company"`
	HiringManager string `json:"hiring_manager"`
	Position      string `json:"position"`
	Intro         string `json:"intro"`
	Skills        string `json:"skills"`
	Closing       string `json:"closing"`
	Style         string `json:"style"`
	Date          string `json:"date"`
}

// BuildCoverLetter normalizes a cover letter form dated now.
func BuildCoverLetter(form url.Values, defaultStyle string, now time.Time) (CoverLetter, error) {
	cl := CoverLetter{
		Name:          scalar(form, "name"),
		Email:         scalar(form, "email"),
		Phone:         scalar(form, "phone"),
		Company:       scalar(form, "company"),
		HiringManager: scalar(form, "hiring_manager"),
		Position:      scalar(form, "position"),
		Intro:         scalar(form, "intro"),
		Skills:        scalar(form, "skills"),
		Closing:       scalar(form, "closing"),
		Style:         scalar(form, "style"),
		Date:          now.Format(DateLayout),
	}
	if cl.HiringManager == "" {
		cl.HiringManager = defaultHiringManager
	}
	if cl.Style == "" {
		cl.Style = defaultStyle
	}
	if err := cl.Validate(); err != nil {
		return CoverLetter{}, err
	}
	return cl, nil
}

func (cl CoverLetter) Validate() error {
	if strings.TrimSpace(cl.Name) == "" || strings.TrimSpace(cl.Company) == "" || strings.TrimSpace(cl.Position) == "" {
		return ErrCoverLetterFields
	}
	return validateSchema(coverLetterSchema, cl)
}

func (cl CoverLetter) FileName(style string) string {
	return attachmentName(cl.Name, style, "cover_letter")
}
