package form

import (
	"errors"
	"mime"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/shared/apperr"
)

const maxMemory = 4 << 20

// ErrTooLarge is returned when the body exceeds the configured limit.
var ErrTooLarge = apperr.New(apperr.KindTooLarge, "Payload too large")

// Parse reads a urlencoded or multipart body and returns its values.
// Bodies cut short by http.MaxBytesReader yield ErrTooLarge.
func Parse(c *gin.Context) (url.Values, error) {
	var err error
	if isMultipart(c.Request) {
		err = c.Request.ParseMultipartForm(maxMemory)
	} else {
		err = c.Request.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrTooLarge
		}
		return nil, apperr.Wrap(apperr.KindValidation, "Invalid form submission", err)
	}
	if c.Request.PostForm == nil {
		return url.Values{}, nil
	}
	return c.Request.PostForm, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
