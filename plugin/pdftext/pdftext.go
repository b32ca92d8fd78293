// Package pdftext extracts plain text from uploaded PDF documents.
package pdftext

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hrygo/jobsense/internal/apperr"
)

// Extract returns the concatenated text of every page in document order.
// A document that cannot be parsed is reported as invalid input, not as an
// internal failure: the bytes came from the caller.
func Extract(data []byte) (text string, err error) {
	// The pdf parser panics on some malformed xref tables instead of
	// returning an error; contain that to an invalid-input result.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = apperr.Newf(apperr.KindInvalidInput, "unreadable PDF document: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalidInput, err, "unreadable PDF document")
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single broken page does not invalidate the document.
			continue
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}
