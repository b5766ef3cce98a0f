package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeSet(t *testing.T) {
	cs := newChangeSet("title", "rating")
	assert.True(t, cs.empty())

	require.NoError(t, cs.set("rating", 4))
	require.NoError(t, cs.set("title", "New"))
	require.NoError(t, cs.set("rating", 5))

	assert.False(t, cs.empty())
	assert.Equal(t, []string{"rating", "title"}, cs.order)
	assert.Equal(t, map[string]interface{}{"rating": 5, "title": "New"}, cs.assignments())
}

func TestChangeSet_RejectsUnknownColumn(t *testing.T) {
	cs := newChangeSet("title")

	err := cs.set("user_id", 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")
	assert.True(t, cs.empty())
}
