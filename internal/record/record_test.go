package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_NewIsUnpersisted(t *testing.T) {
	r := New("alice")
	_, ok := r.ID()
	assert.False(t, ok)

	r.SetID(7)
	id, ok := r.ID()
	assert.True(t, ok)
	assert.Equal(t, 7, id)
}

func TestRecord_Persisted(t *testing.T) {
	r := Persisted(42, "bob")
	id, ok := r.ID()
	assert.True(t, ok)
	assert.Equal(t, 42, id)
	assert.Equal(t, "bob", SortKey(r))
}
