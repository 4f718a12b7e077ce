// Package tags maps free-form tag strings to filesystem-safe names.
//
// A tag is persisted as a zero-length marker file whose name carries the
// tag's value, so the mapping has to be a bijection and the encoded form
// must be a valid single path segment. Commas and slashes in the tag are
// escaped; everything else passes through untouched.
//
// Encoding:
//
//	","  ->  ",0"
//	"/"  ->  ",1"
//
// The comma pass runs first, so the commas introduced by the slash pass
// are never re-escaped and decoding stays unambiguous.
package tags

import "strings"

// Escape converts a tag string into a filesystem-safe name.
// The result never contains a "/" character.
func Escape(tag string) string {
	s := strings.ReplaceAll(tag, ",", ",0")
	return strings.ReplaceAll(s, "/", ",1")
}

// Unescape converts an escaped filename back into the original tag string.
// It is the inverse of Escape: Unescape(Escape(tag)) == tag for all tags.
func Unescape(name string) (string, error) {
	segments := strings.Split(name, ",")

	var sb strings.Builder
	sb.WriteString(segments[0])

	for _, seg := range segments[1:] {
		if seg == "" {
			return "", &ParseError{Name: name}
		}
		switch seg[0] {
		case '0':
			sb.WriteString(",")
		case '1':
			sb.WriteString("/")
		default:
			return "", &ParseError{Name: name}
		}
		sb.WriteString(seg[1:])
	}

	return sb.String(), nil
}

// ParseError indicates a tag filename that does not follow the escaping
// scheme: an escape selector other than '0' or '1', or a trailing comma
// with no selector at all.
type ParseError struct {
	// Name is the offending filename.
	Name string
}

func (e *ParseError) Error() string {
	return "malformed tag filename: " + e.Name
}
