package weburl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ForcesHTTPSAndTrimsTrailingSlash(t *testing.T) {
	u, err := Parse("http://example.com/path/", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path", u.String())
}

func TestParse_RelativeRequiresBase(t *testing.T) {
	_, err := Parse("/only-a-path", nil)
	assert.Error(t, err)
}

func TestParse_ResolvesAgainstBase(t *testing.T) {
	base := MustParse("https://example.com/dir/page")
	u, err := Parse("../other", &base)
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host())
}

func TestEqual_IgnoresFragmentButNotQuery(t *testing.T) {
	a := MustParse("https://example.com/p?x=1#frag1")
	b := MustParse("https://example.com/p?x=1#frag2")
	c := MustParse("https://example.com/p?x=2")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestOrigin(t *testing.T) {
	u := MustParse("https://example.com/a/b")
	assert.Equal(t, "https://example.com", u.Origin())
}

func TestFileExtensionAndStem(t *testing.T) {
	u := MustParse("https://example.com/dir/report.PDF")
	assert.Equal(t, ".pdf", u.FileExtension())
	assert.Equal(t, "report", u.FileStem())
}

func TestSameHost(t *testing.T) {
	a := MustParse("https://example.com/a")
	b := MustParse("https://example.com/b")
	c := MustParse("https://other.com/a")
	assert.True(t, a.SameHost(b))
	assert.False(t, a.SameHost(c))
}

func TestResolve(t *testing.T) {
	base := MustParse("https://example.com/dir/")
	u, err := base.Resolve("page.html")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page.html", u.String())
}

func TestKey_ConsistentWithEqual(t *testing.T) {
	a := MustParse("https://example.com/p?x=1#frag1")
	b := MustParse("https://example.com/p?x=1#frag2")
	assert.Equal(t, a.Key(), b.Key())
}
