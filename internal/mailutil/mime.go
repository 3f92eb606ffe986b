// Package mailutil extracts plain text from raw RFC 5322 messages for the
// transports that receive whole messages (SMTP ingest, mbox files).
package mailutil

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// headerDecoder decodes RFC 2047 encoded words, including non-UTF-8
// charsets
var headerDecoder = mime.WordDecoder{
	CharsetReader: func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := ianaindex.MIME.Encoding(charset)
		if err != nil || enc == nil {
			return input, nil
		}
		return enc.NewDecoder().Reader(input), nil
	},
}

// DecodeHeader decodes an encoded-word header value, returning the raw
// value when decoding fails
func DecodeHeader(value string) string {
	decoded, err := headerDecoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// ExtractText extracts the text content from an email message. For
// multipart messages it prefers text/plain parts.
func ExtractText(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")

	if !strings.Contains(strings.ToLower(contentType), "multipart/") {
		return readBody(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return readBody(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	}

	boundary, ok := params["boundary"]
	if !ok {
		return readBody(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	}

	mr := multipart.NewReader(msg.Body, boundary)

	var textContent bytes.Buffer
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Return what we have so far on a malformed part
			if textContent.Len() > 0 {
				return textContent.String(), nil
			}
			return "", err
		}

		partType := part.Header.Get("Content-Type")
		if partType == "" || strings.Contains(strings.ToLower(partType), "text/plain") {
			text, err := readBody(part, part.Header.Get("Content-Transfer-Encoding"))
			if err != nil {
				continue
			}
			textContent.WriteString(text)
			textContent.WriteString("\n")
		}
	}

	return textContent.String(), nil
}

// readBody reads a body reader, decoding quoted-printable and base64
// content
func readBody(r io.Reader, transferEncoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(transferEncoding)) {
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
