package service

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// encodingSampleSize limits how many bytes feed the charset detector.
const encodingSampleSize = 100_000

// latin1 is the fixed fallback when the detected charset cannot decode the file.
const latin1 = "iso-8859-1"

// DetectEncoding guesses the charset of data from its first 100KB.
// It always returns a name; inconclusive detection yields utf-8 with
// confidence 0. Confidence is informational only.
func DetectEncoding(data []byte) (name string, confidence int) {
	sample := data
	if len(sample) > encodingSampleSize {
		sample = sample[:encodingSampleSize]
	}
	if len(sample) == 0 {
		return "utf-8", 0
	}

	best, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || best == nil || best.Charset == "" {
		return "utf-8", 0
	}
	return strings.ToLower(best.Charset), best.Confidence
}

// decodeCharset converts raw bytes to UTF-8 text for the named charset,
// stripping a UTF-8 BOM when present. Unknown charsets pass through when the
// bytes are already valid UTF-8.
func decodeCharset(data []byte, charset string) ([]byte, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var enc encoding.Encoding
	switch strings.ToLower(charset) {
	case "utf-8", "utf8", "ascii", "us-ascii", "":
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("data is not valid UTF-8")
		}
		return data, nil
	case "iso-8859-1", "latin1", "latin-1":
		enc = charmap.ISO8859_1
	case "iso-8859-15":
		enc = charmap.ISO8859_15
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	case "utf-16le":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16be":
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	default:
		if utf8.Valid(data) {
			return data, nil
		}
		enc = charmap.ISO8859_1
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", charset, err)
	}
	return decoded, nil
}
