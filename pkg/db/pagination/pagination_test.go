package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "123", CreatedAt: "2026-08-01T10:00:00Z"})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	cursor, err := DecodeCursor(token)
	assert.NoError(t, err)
	assert.Equal(t, "123", cursor.ID)
	assert.Equal(t, "2026-08-01T10:00:00Z", cursor.CreatedAt)
}

func TestDecodeCursorInvalid(t *testing.T) {
	_, err := DecodeCursor("not base64!!")
	assert.Error(t, err)
}

func TestBuildCursorPageInfo(t *testing.T) {
	type row struct{ ID string }
	extract := func(r *row) string { return r.ID }

	t.Run("empty", func(t *testing.T) {
		info := BuildCursorPageInfo(nil, 10, extract)
		assert.False(t, info.HasMore)
		assert.Empty(t, info.NextPageToken)
	})

	t.Run("has more", func(t *testing.T) {
		rows := []*row{{ID: "1"}, {ID: "2"}, {ID: "3"}}
		info := BuildCursorPageInfo(rows, 2, extract)
		assert.True(t, info.HasMore)
		assert.Equal(t, "2", info.NextPageToken)
	})

	t.Run("exact page", func(t *testing.T) {
		rows := []*row{{ID: "1"}, {ID: "2"}}
		info := BuildCursorPageInfo(rows, 2, extract)
		assert.False(t, info.HasMore)
		assert.Equal(t, "2", info.NextPageToken)
	})
}
