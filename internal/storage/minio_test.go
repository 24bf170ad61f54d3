package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("/reviews/300/", "Receipt.PDF")

	require.True(t, strings.HasPrefix(key, "reviews/300/"), key)
	require.True(t, strings.HasSuffix(key, ".pdf"), key)

	id := strings.TrimSuffix(strings.TrimPrefix(key, "reviews/300/"), ".pdf")
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	assert.NotEqual(t, key, ObjectKey("reviews/300", "Receipt.PDF"))
}

func TestObjectKey_NoExtension(t *testing.T) {
	key := ObjectKey("reviews/1", "scan")
	assert.False(t, strings.Contains(strings.TrimPrefix(key, "reviews/1/"), "."))
}
