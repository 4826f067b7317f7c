package payload

import (
	_ "embed"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"resume-maker/internal/shared/apperr"
	"resume-maker/internal/shared/util"
)

var (
	//go:embed schemas/resume.schema.json
	resumeSchemaJSON string
	//go:embed schemas/cover_letter.schema.json
	coverLetterSchemaJSON string

	resumeSchema      = mustSchema(resumeSchemaJSON)
	coverLetterSchema = mustSchema(coverLetterSchemaJSON)
)

func mustSchema(raw string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic("payload: invalid embedded schema: " + err.Error())
	}
	return s
}

func validateSchema(schema *gojsonschema.Schema, doc any) error {
	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "schema validation failed", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return apperr.Validation("Invalid document: " + strings.Join(msgs, "; "))
}

func attachmentName(name, style, suffix string) string {
	return util.AttachmentName(name, style, suffix) + ".pdf"
}
