package render

import "resume-maker/internal/styles"

// LoginView backs the login page.
type LoginView struct {
	Email         string
	GoogleEnabled bool
}

// BuilderView backs the resume builder form.
type BuilderView struct {
	Style          styles.Style
	Styles         []styles.Style
	Name           string
	SkillRows      []int
	ExperienceRows []int
	EducationRows  []int
}

// StylesView lists the styles of one registry.
type StylesView struct {
	Styles []styles.Style
}

// CoverLetterFormView backs the cover letter form.
type CoverLetterFormView struct {
	Styles []styles.Style
	Name   string
}

// Rows returns n placeholders for ranging over empty form rows.
func Rows(n int) []int {
	return make([]int, n)
}
