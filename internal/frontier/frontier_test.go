package frontier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue_PopsLowestCostFirst(t *testing.T) {
	q := NewQueue[string]()
	q.Push("c", 3)
	q.Push("a", 1)
	q.Push("b", 2)

	v, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "c", v)
}

func TestQueue_TiesBrokenByInsertionOrder(t *testing.T) {
	q := NewQueue[string]()
	q.Push("first", 1)
	q.Push("second", 1)
	q.Push("third", 1)

	v, _ := q.Pop()
	assert.Equal(t, "first", v)
	v, _ = q.Pop()
	assert.Equal(t, "second", v)
	v, _ = q.Pop()
	assert.Equal(t, "third", v)
}

func TestQueue_PopEmptyReportsFalse(t *testing.T) {
	q := NewQueue[int]()
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestQueue_Len(t *testing.T) {
	q := NewQueue[int]()
	assert.Equal(t, 0, q.Len())
	q.Push(1, 0)
	q.Push(2, 0)
	assert.Equal(t, 2, q.Len())
	q.Pop()
	assert.Equal(t, 1, q.Len())
}

func TestMap_GetOrCreate_CreatesOnceForSameOrigin(t *testing.T) {
	m := NewMap[int]()
	q1, created1 := m.GetOrCreate("https://example.com")
	assert.True(t, created1)
	q2, created2 := m.GetOrCreate("https://example.com")
	assert.False(t, created2)
	assert.Same(t, q1, q2)
}

func TestMap_Get_ReportsAbsence(t *testing.T) {
	m := NewMap[int]()
	_, ok := m.Get("https://example.com")
	assert.False(t, ok)
	m.GetOrCreate("https://example.com")
	_, ok = m.Get("https://example.com")
	assert.True(t, ok)
}
