package visited

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/p4o1o/dysdera/internal/weburl"
)

func TestAdd_RejectsURLDuplicate(t *testing.T) {
	s := New()
	u := weburl.MustParse("https://example.com/a")
	assert.True(t, s.Add(Record{URL: u, ContentHash: [32]byte{1}}))
	assert.False(t, s.Add(Record{URL: u, ContentHash: [32]byte{2}}))
}

func TestContainsURL(t *testing.T) {
	s := New()
	u := weburl.MustParse("https://example.com/a")
	assert.False(t, s.ContainsURL(u))
	s.Add(Record{URL: u})
	assert.True(t, s.ContainsURL(u))
}

func TestContainsDuplicate_MatchesByContentHash(t *testing.T) {
	s := New()
	hash := [32]byte{9, 9, 9}
	s.Add(Record{URL: weburl.MustParse("https://example.com/a"), ContentHash: hash})
	r := Record{URL: weburl.MustParse("https://example.com/b"), ContentHash: hash}
	assert.True(t, s.ContainsDuplicate(r))
}

func TestContainsNearDuplicate_FallsBackWithoutSimhash(t *testing.T) {
	s := New()
	hash := [32]byte{1}
	s.Add(Record{URL: weburl.MustParse("https://example.com/a"), ContentHash: hash})
	r := Record{URL: weburl.MustParse("https://example.com/b"), ContentHash: hash, HasSimhash: false}
	assert.True(t, s.ContainsNearDuplicate(r, 3))
}

func TestContainsNearDuplicate_WithinDistance(t *testing.T) {
	s := New()
	s.Add(Record{
		URL:        weburl.MustParse("https://example.com/a"),
		Simhash:    0b1010,
		HasSimhash: true,
	})
	r := Record{Simhash: 0b1011, HasSimhash: true}
	assert.True(t, s.ContainsNearDuplicate(r, 2))
	assert.False(t, s.ContainsNearDuplicate(r, 1))
}

func TestReset_ClearsRecordsAndKeys(t *testing.T) {
	s := New()
	u := weburl.MustParse("https://example.com/a")
	s.Add(Record{URL: u})
	s.Reset()
	assert.False(t, s.ContainsURL(u))
	assert.True(t, s.Add(Record{URL: u}))
}
