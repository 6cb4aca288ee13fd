package datafactory

import (
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenStringLength(t *testing.T) {
	for _, kind := range []StringKind{Alpha, Numeric, Alphanumeric, Latin1, UTF8, CJK} {
		s := GenString(kind, 12)
		assert.Equal(t, 12, len([]rune(s)), "kind %s", kind)
	}
}

func TestGenStringAlphabet(t *testing.T) {
	assert.Regexp(t, "^[a-zA-Z]+$", GenString(Alpha, 30))
	assert.Regexp(t, "^[0-9]+$", GenString(Numeric, 30))
	assert.Regexp(t, "^[a-zA-Z0-9]+$", GenString(Alphanumeric, 30))
}

func TestValidNamesCoverKinds(t *testing.T) {
	names := ValidNames()
	require.NotEmpty(t, names)
	for _, name := range names {
		assert.NotEmpty(t, name)
		assert.LessOrEqual(t, len([]rune(name)), 255)
	}
}

func TestInvalidNamesExceedLimit(t *testing.T) {
	for _, name := range InvalidNames() {
		assert.Greater(t, len([]rune(name)), 255)
	}
}

func TestInvalidValuesIncludeBlanks(t *testing.T) {
	values := InvalidValues()
	assert.Contains(t, values, "")
	blank := false
	for _, v := range values {
		if v != "" && strings.TrimSpace(v) == "" {
			blank = true
		}
	}
	assert.True(t, blank, "whitespace-only value expected")
}

func TestGenIPAddr(t *testing.T) {
	host := GenIPAddr(false)
	require.NotNil(t, net.ParseIP(host))

	network := GenIPAddr(true)
	ip := net.ParseIP(network).To4()
	require.NotNil(t, ip)
	assert.Equal(t, byte(0), ip[3], "network address ends in .0")
}

func TestGenMAC(t *testing.T) {
	mac := GenMAC()
	parsed, err := net.ParseMAC(mac)
	require.NoError(t, err)
	assert.Len(t, parsed, 6)
	// locally administered unicast
	assert.Equal(t, byte(0x02), parsed[0]&0x03)
}

func TestGenIntegerBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := GenInteger(5, 10)
		assert.GreaterOrEqual(t, n, 5)
		assert.LessOrEqual(t, n, 10)
	}
}

func TestUniqueNameIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		name := UniqueName("org")
		assert.True(t, strings.HasPrefix(name, "org-"))
		assert.False(t, seen[name], "duplicate %q", name)
		seen[name] = true
	}
}
