package helpers

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// ToUTF8 converts an HTML body to UTF-8, using the Content-Type (which may be
// empty) and the document's meta tags to determine its encoding.
func ToUTF8(body []byte, contentType string) (string, error) {
	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(body, contentType)

	// If already UTF-8, return as is
	if name == "utf-8" || name == "UTF-8" {
		return string(body), nil
	}

	// Convert to UTF-8 if necessary
	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return "", fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}

	return buf.String(), nil
}
