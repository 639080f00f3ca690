package repository

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("decoded term is not valid UTF-8")

// decodeSearchTerm percent-decodes term. A '%' not followed by two hex digits
// is kept as written and '+' stays literal. Only a result that is not valid
// UTF-8 is rejected.
func decodeSearchTerm(term string) (string, error) {
	var b strings.Builder
	b.Grow(len(term))

	for i := 0; i < len(term); i++ {
		if term[i] == '%' && i+2 < len(term) {
			hi, okHi := unhex(term[i+1])
			lo, okLo := unhex(term[i+2])
			if okHi && okLo {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(term[i])
	}

	decoded := b.String()
	if !utf8.ValidString(decoded) {
		return "", errInvalidUTF8
	}
	return decoded, nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
