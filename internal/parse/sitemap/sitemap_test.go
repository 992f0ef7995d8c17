package sitemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p4o1o/dysdera/internal/weburl"
)

var base = weburl.MustParse("https://example.com/")

func TestParse_URLSet(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url>
    <loc>https://example.com/a</loc>
    <lastmod>2024-01-02</lastmod>
    <changefreq>daily</changefreq>
    <priority>0.8</priority>
  </url>
  <url>
    <loc>https://example.com/b</loc>
  </url>
</urlset>`)

	idx, set, err := Parse(body, base)
	require.NoError(t, err)
	assert.Nil(t, idx)
	require.NotNil(t, set)
	require.Len(t, set.Entries, 2)
	assert.Equal(t, "https://example.com/a", set.Entries[0].URL.String())
	assert.Equal(t, "2024-01-02", set.Entries[0].Lastmod)
	assert.Equal(t, "daily", set.Entries[0].ChangeFreq)
	assert.Equal(t, "0.8", set.Entries[0].Priority)
}

func TestParse_SitemapIndex(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap>
    <loc>https://example.com/sitemap-b.xml</loc>
    <lastmod>2024-02-01</lastmod>
  </sitemap>
  <sitemap>
    <loc>https://example.com/sitemap-a.xml</loc>
    <lastmod>2024-01-01</lastmod>
  </sitemap>
</sitemapindex>`)

	idx, set, err := Parse(body, base)
	require.NoError(t, err)
	assert.Nil(t, set)
	require.NotNil(t, idx)
	require.Len(t, idx.Entries, 2)
	assert.True(t, idx.HasLastmod)
	assert.Equal(t, "https://example.com/sitemap-a.xml", idx.Entries[0].URL.String())
	assert.Equal(t, "https://example.com/sitemap-b.xml", idx.Entries[1].URL.String())
}

func TestParse_NewsExtension(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"
        xmlns:news="http://www.google.com/schemas/sitemap-news/0.9">
  <url>
    <loc>https://example.com/article</loc>
    <news:news>
      <news:publication>
        <news:name>Example Times</news:name>
        <news:language>en</news:language>
      </news:publication>
      <news:publication_date>2024-03-01</news:publication_date>
      <news:title>Breaking News</news:title>
      <news:keywords>foo, bar</news:keywords>
    </news:news>
  </url>
</urlset>`)

	_, set, err := Parse(body, base)
	require.NoError(t, err)
	require.Len(t, set.Entries, 1)
	require.NotNil(t, set.Entries[0].News)
	assert.Equal(t, "Example Times", set.Entries[0].News.Name)
	assert.Equal(t, "Breaking News", set.Entries[0].News.Title)
}

func TestParse_UnsupportedRootElement(t *testing.T) {
	body := []byte(`<?xml version="1.0"?><rss></rss>`)
	_, _, err := Parse(body, base)
	assert.Error(t, err)
}

func TestParse_SkipsEntriesWithEmptyLoc(t *testing.T) {
	body := []byte(`<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc></loc></url>
  <url><loc>https://example.com/ok</loc></url>
</urlset>`)
	_, set, err := Parse(body, base)
	require.NoError(t, err)
	require.Len(t, set.Entries, 1)
	assert.Equal(t, "https://example.com/ok", set.Entries[0].URL.String())
}
