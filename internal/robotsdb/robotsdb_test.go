package robotsdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/p4o1o/dysdera/internal/parse/robots"
)

func TestIsPermitted_NoEntryAlwaysPermitted(t *testing.T) {
	s := New()
	assert.True(t, s.IsPermitted("https://example.com", "/anything"))
}

func TestIsPermitted_SimpleDisallow(t *testing.T) {
	s := New()
	s.Add("https://example.com", robots.Rules{Disallow: []string{"/private"}})
	assert.False(t, s.IsPermitted("https://example.com", "/private/page"))
	assert.True(t, s.IsPermitted("https://example.com", "/public"))
}

func TestIsPermitted_NestedAllowOverridesDisallow(t *testing.T) {
	s := New()
	s.Add("https://example.com", robots.Rules{
		Disallow: []string{"/private"},
		Allow:    []string{"/private/public"},
	})
	assert.True(t, s.IsPermitted("https://example.com", "/private/public/page"))
	assert.False(t, s.IsPermitted("https://example.com", "/private/secret"))
}

func TestIsPermitted_LongestPrefixWins(t *testing.T) {
	s := New()
	s.Add("https://example.com", robots.Rules{
		Disallow: []string{"/a", "/a/b"},
		Allow:    []string{"/a/b/c"},
	})
	assert.True(t, s.IsPermitted("https://example.com", "/a/b/c/d"))
	assert.False(t, s.IsPermitted("https://example.com", "/a/b/x"))
	assert.False(t, s.IsPermitted("https://example.com", "/a/x"))
}

func TestDelay_ReturnsZeroWhenUnset(t *testing.T) {
	s := New()
	s.Add("https://example.com", robots.Rules{})
	assert.Equal(t, 0, s.Delay("https://example.com"))
}

func TestDelay_ReturnsConfiguredValue(t *testing.T) {
	s := New()
	s.Add("https://example.com", robots.Rules{Delay: 7})
	assert.Equal(t, 7, s.Delay("https://example.com"))
}

func TestHasRulesFor(t *testing.T) {
	s := New()
	assert.False(t, s.HasRulesFor("https://example.com"))
	s.Add("https://example.com", robots.Rules{})
	assert.True(t, s.HasRulesFor("https://example.com"))
}

func TestReset_ClearsEntries(t *testing.T) {
	s := New()
	s.Add("https://example.com", robots.Rules{Disallow: []string{"/x"}})
	s.Reset()
	assert.False(t, s.HasRulesFor("https://example.com"))
	assert.True(t, s.IsPermitted("https://example.com", "/x"))
}
