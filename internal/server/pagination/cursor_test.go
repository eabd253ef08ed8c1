package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	ts := time.Date(2026, 8, 29, 10, 30, 0, 123456789, time.UTC)

	cursor := EncodeCursor(ts, 42)
	gotTS, gotID, err := DecodeCursor(cursor)
	require.NoError(t, err)

	assert.True(t, ts.Equal(gotTS))
	assert.Equal(t, int64(42), gotID)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"missing separator", "MjAyNi0wOC0yOVQxMDozMDowMFo"}, // base64 of a bare timestamp
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeCursor(tt.cursor)
			assert.Error(t, err)
		})
	}
}
