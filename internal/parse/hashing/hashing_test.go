package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHash_DeterministicAndSensitive(t *testing.T) {
	a := ContentHash([]byte("hello world"))
	b := ContentHash([]byte("hello world"))
	c := ContentHash([]byte("hello world!"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSimhash_IdenticalTextSameHash(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	assert.Equal(t, Simhash(text, 64), Simhash(text, 64))
}

func TestSimhash_SimilarTextCloseDistance(t *testing.T) {
	a := Simhash("the quick brown fox jumps over the lazy dog", 64)
	b := Simhash("the quick brown fox jumps over a lazy dog", 64)
	assert.Less(t, Distance(a, b), 20)
}

func TestDistance_ZeroForEqualHashes(t *testing.T) {
	h := Simhash("some text content here", 64)
	assert.Equal(t, 0, Distance(h, h))
}

func TestDistance_SymmetricAndBounded(t *testing.T) {
	a := Simhash("alpha beta gamma", 64)
	b := Simhash("delta epsilon zeta", 64)
	assert.Equal(t, Distance(a, b), Distance(b, a))
	assert.LessOrEqual(t, Distance(a, b), 64)
}
