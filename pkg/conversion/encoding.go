package conversion

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingID is an enum-like type for the encodings a name may arrive in.
//
// Name corpora are overwhelmingly UTF-8 today, but exports from legacy
// genealogy software still show up as ISO-8859-1 or Windows-1252. The
// candidate list is deliberately short: anything more exotic must be
// converted by the caller before encoding.
type EncodingID int

const (
	UTF8 EncodingID = iota
	ASCII
	ISO8859_1
	Windows1252
)

// EncodingName returns a canonical string name.
func (e EncodingID) EncodingName() string {
	switch e {
	case UTF8:
		return "UTF-8"
	case ASCII:
		return "US-ASCII"
	case ISO8859_1:
		return "ISO-8859-1"
	case Windows1252:
		return "Windows-1252"
	}
	return "Unknown"
}

// nameToEncoding maps lower-case names to enum.
var nameToEncoding = map[string]EncodingID{
	"utf-8":        UTF8,
	"utf8":         UTF8,
	"us-ascii":     ASCII,
	"ascii":        ASCII,
	"iso-8859-1":   ISO8859_1,
	"latin1":       ISO8859_1,
	"windows-1252": Windows1252,
	"cp1252":       Windows1252,
}

// ParseEncoding returns the EncodingID for a given name (case-insensitive).
func ParseEncoding(name string) (EncodingID, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if enc, ok := nameToEncoding[key]; ok {
		return enc, nil
	}
	return 0, fmt.Errorf("unknown encoding: %s", name)
}

// GetEncoding returns the encoding.Encoding instance.
func GetEncoding(e EncodingID) (encoding.Encoding, error) {
	switch e {
	case UTF8, ASCII:
		return unicode.UTF8, nil
	case ISO8859_1:
		return charmap.ISO8859_1, nil
	case Windows1252:
		return charmap.Windows1252, nil
	}
	return nil, errors.New("unsupported encoding id")
}

// ToUTF8 converts bytes (in any supported encoding) to UTF-8.
func ToUTF8(input []byte, src EncodingID) (string, error) {
	enc, err := GetEncoding(src)
	if err != nil {
		return "", err
	}
	reader := transform.NewReader(strings.NewReader(string(input)), enc.NewDecoder())
	out, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// candidates is the detection order. ISO-8859-1 assigns a meaning to every
// byte, so Windows-1252 only wins for inputs that ISO-8859-1 cannot decode.
var candidates = []EncodingID{UTF8, ISO8859_1, Windows1252, ASCII}

// DetectAndConvert converts input bytes to a UTF-8 string, trying the
// candidate encodings in order. It reports which candidate succeeded.
func DetectAndConvert(input []byte) (string, EncodingID, error) {
	if utf8.Valid(input) {
		id := UTF8
		if isASCII(input) {
			id = ASCII
		}
		return string(input), id, nil
	}
	for _, id := range candidates[1:] {
		out, err := ToUTF8(input, id)
		if err == nil && utf8.ValidString(out) {
			return out, id, nil
		}
	}
	return "", 0, ErrInvalidEncoding
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
