package tags

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"", ""},
		{"bug", "bug"},
		{"i-am-also-a-tag", "i-am-also-a-tag"},
		{"bird/wing", "bird,1wing"},
		{"bird/wing/feather", "bird,1wing,1feather"},
		{"deer,antler", "deer,0antler"},
		{"deer,antler,tassle", "deer,0antler,0tassle"},
		{"hop,scotch/shoe", "hop,0scotch,1shoe"},
		{",", ",0"},
		{"/", ",1"},
		{",/", ",0,1"},
		{",0", ",00"},
		{",1", ",01"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Escape(tt.tag), "Escape(%q)", tt.tag)
	}
}

func TestEscapeNeverProducesSlash(t *testing.T) {
	inputs := []string{
		"a/b/c", "///", "a,b/c,d", ",,//,,", "plain", "trailing/",
	}
	for _, tag := range inputs {
		assert.NotContains(t, Escape(tag), "/", "Escape(%q)", tag)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"bug",
		"bird/wing",
		"deer,antler",
		"hop,scotch/shoe",
		",", "/", ",/", "/,",
		",0", ",1", ",,,,", "////",
		"weird tag with spaces",
		"unicode-🦌/antler",
		"trailing,", "trailing/",
	}
	for _, tag := range inputs {
		got, err := Unescape(Escape(tag))
		require.NoError(t, err, "round trip of %q", tag)
		assert.Equal(t, tag, got, "round trip of %q", tag)
	}
}

func TestUnescapeMalformed(t *testing.T) {
	// '2' is not a valid escape selector, and a trailing comma leaves an
	// empty segment with no selector.
	malformed := []string{",2x", "tag,", "a,0b,", "a,zb", ","}
	for _, name := range malformed {
		_, err := Unescape(name)
		require.Error(t, err, "Unescape(%q)", name)

		var perr *ParseError
		require.ErrorAs(t, err, &perr, "Unescape(%q)", name)
		assert.Equal(t, name, perr.Name)
		assert.True(t, strings.Contains(perr.Error(), name))
	}
}

func TestUnescapeKnownNames(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"bird,1wing", "bird/wing"},
		{"deer,0antler", "deer,antler"},
		{"hop,0scotch,1shoe", "hop,scotch/shoe"},
		{"TAG2", "TAG2"},
	}
	for _, tt := range tests {
		got, err := Unescape(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
