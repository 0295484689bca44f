package content

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"<p>Hello <b>world</b></p>":              "Hello world",
		"plain text":                             "plain text",
		"<script>alert(1)</script>Safe <i>x</i>": "Safe x",
		"  spaced   <br>  out ":                  "spaced out",
		"Wooden desk\nin good shape":             "Wooden desk in good shape",
		"line\r\n\tbreaks\r\n":                   "line breaks",
	}
	for in, want := range cases {
		assert.Equal(t, want, Sanitize(in), in)
	}
}

func TestMaskSensitive(t *testing.T) {
	out := MaskSensitive("mail me at jane@example.com or call +216 22 333 444, see https://spam.example/x")
	assert.NotContains(t, out, "jane@example.com")
	assert.NotContains(t, out, "333 444")
	assert.NotContains(t, out, "spam.example")
	assert.Equal(t, 3, strings.Count(out, redacted))

	assert.Equal(t, "born in 1999, 2 chairs", MaskSensitive("born in 1999, 2 chairs"))
}

func TestPrepare_SanitizesBeforeMasking(t *testing.T) {
	// the address only becomes contiguous once tags are stripped
	out := Prepare("<p>write to jane<span>@example.com</span></p>")
	assert.Equal(t, "write to "+redacted, out)
}

func TestIsArabic(t *testing.T) {
	assert.True(t, IsArabic("مرحبا بكم"))
	assert.False(t, IsArabic(""))
	assert.False(t, IsArabic("hello world"))

	// 4 Arabic runes out of 10 -> 40%
	assert.False(t, IsArabic("مرحبaaaaaa"))
	// 6 out of 10 -> 60%
	assert.True(t, IsArabic("مرحبامaaaa"))
	// exactly half is not enough
	assert.False(t, IsArabic("مرحبaaaa"))
}

func TestImageName(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	a := ImageName("Photo.JPG", now)
	b := ImageName("Photo.JPG", now)

	require.True(t, strings.HasSuffix(a, ".jpg"))
	require.Len(t, a, 26+4)
	require.NotEqual(t, a, b)
	require.Equal(t, a[:10], b[:10]) // shared timestamp prefix
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "JD", Initials("jane.doe@example.com"))
	assert.Equal(t, "BO", Initials("bob@example.com"))
	assert.Equal(t, "YY", Initials(""))
	assert.Equal(t, "ÉM", Initials("élise.martin@example.com"))
	assert.Equal(t, "É", Initials("é@example.com"))
}
