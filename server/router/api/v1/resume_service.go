package v1

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/jobsense/internal/apperr"
	"github.com/hrygo/jobsense/plugin/pdftext"
	"github.com/hrygo/jobsense/retrieval"
)

// Resumes above this size are rejected before PDF parsing.
const maxResumeBytes = 10 << 20

// ResumeMatch extracts the text of an uploaded PDF resume and ranks catalog
// jobs against it. No filter is applied; the whole resume acts as the query.
func (s *APIV1Service) ResumeMatch(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errJSON(c, apperr.Wrap(apperr.KindInvalidInput, err, "resume file is required"))
	}
	if fileHeader.Size > maxResumeBytes {
		return errJSON(c, apperr.New(apperr.KindInvalidInput, "resume file is too large"))
	}

	k := 5
	if raw := c.QueryParam("k"); raw != "" {
		k, err = strconv.Atoi(raw)
		if err != nil {
			return errJSON(c, apperr.Wrap(apperr.KindInvalidInput, err, "k must be an integer"))
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errJSON(c, apperr.Wrap(apperr.KindInvalidInput, err, "failed to open resume upload"))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxResumeBytes+1))
	if err != nil {
		return errJSON(c, apperr.Wrap(apperr.KindInvalidInput, err, "failed to read resume upload"))
	}

	var text string
	if isPDFFilename(fileHeader.Filename) {
		text, err = pdftext.Extract(data)
		if err != nil {
			return errJSON(c, err)
		}
	}

	hits, err := s.Engine.MatchResume(c.Request().Context(), fileHeader.Filename, text, k)
	if err != nil {
		return errJSON(c, err)
	}
	if hits == nil {
		hits = []retrieval.Hit{}
	}
	return c.JSON(http.StatusOK, hits)
}

func isPDFFilename(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
