// Package datafactory generates the representative name sets the suites feed
// through UI forms and CLI options: the valid set covers the character
// classes the product must accept, the invalid set the values it must reject.
package datafactory

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// StringKind selects the character class of a generated string.
type StringKind string

const (
	Alpha        StringKind = "alpha"
	Numeric      StringKind = "numeric"
	Alphanumeric StringKind = "alphanumeric"
	Latin1       StringKind = "latin1"
	UTF8         StringKind = "utf8"
	CJK          StringKind = "cjk"
	HTML         StringKind = "html"
)

// DefaultLength matches the product's comfortable name length; long enough to
// avoid collisions, short enough for every name field.
const DefaultLength = 10

const (
	alphaChars   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numericChars = "0123456789"
	latin1Chars  = "àáâãäåæçèéêëìíîïðñòóôõöøùúûüýþÿ"
	cjkChars     = "丁三上下世中主之也了"
)

// GenString returns a random string of the given kind and length.
func GenString(kind StringKind, length int) string {
	if length <= 0 {
		length = DefaultLength
	}
	switch kind {
	case Alpha:
		return pick(alphaChars, length)
	case Numeric:
		return pick(numericChars, length)
	case Alphanumeric:
		return pick(alphaChars+numericChars, length)
	case Latin1:
		return pickRunes(latin1Chars, length)
	case UTF8, CJK:
		return pickRunes(cjkChars, length)
	case HTML:
		return fmt.Sprintf("<b>%s</b>", pick(alphaChars, length))
	}
	return pick(alphaChars, length)
}

func pick(charset string, length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

func pickRunes(charset string, length int) string {
	runes := []rune(charset)
	out := make([]rune, length)
	for i := range out {
		out[i] = runes[rand.Intn(len(runes))]
	}
	return string(out)
}

// ValidNames returns one name per character class the product accepts.
// Mirrors the coverage of the UI create tests: alpha, numeric, alphanumeric,
// latin1, utf8, cjk and html markup.
func ValidNames() []string {
	return []string{
		GenString(Alpha, DefaultLength),
		GenString(Numeric, DefaultLength),
		GenString(Alphanumeric, DefaultLength),
		GenString(Latin1, DefaultLength),
		GenString(UTF8, DefaultLength),
		GenString(CJK, DefaultLength),
		GenString(HTML, DefaultLength),
	}
}

// ValidLabels returns names restricted to the label charset (ascii
// alphanumerics only).
func ValidLabels() []string {
	return []string{
		GenString(Alpha, DefaultLength),
		GenString(Numeric, DefaultLength),
		GenString(Alphanumeric, DefaultLength),
	}
}

// InvalidNames returns name values rejected by rename forms: oversized
// strings per character class.
func InvalidNames() []string {
	return []string{
		GenString(Alpha, 256),
		GenString(Numeric, 256),
		GenString(Alphanumeric, 256),
		GenString(UTF8, 256),
	}
}

// InvalidValues returns the values create forms must reject outright: blank,
// whitespace-only, tab-bearing and oversized strings.
func InvalidValues() []string {
	return append([]string{
		"",
		"   ",
		"\t",
		"foo\tbar",
	}, InvalidNames()...)
}

// GenIPAddr returns a random IPv4 address. With network true the last octet
// is zero, yielding a network address.
func GenIPAddr(network bool) string {
	last := rand.Intn(254) + 1
	if network {
		last = 0
	}
	return fmt.Sprintf("%d.%d.%d.%d",
		rand.Intn(223)+1, rand.Intn(256), rand.Intn(256), last)
}

// GenMAC returns a random locally administered unicast MAC address.
func GenMAC() string {
	buf := make([]byte, 6)
	rand.Read(buf)
	buf[0] = (buf[0] | 0x02) &^ 0x01
	parts := make([]string, len(buf))
	for i, b := range buf {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, ":")
}

// GenInteger returns a random integer in [min, max].
func GenInteger(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min+1)
}

// UniqueName prefixes a short unique suffix so repeated suite runs against
// the same server never collide on names.
func UniqueName(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}
