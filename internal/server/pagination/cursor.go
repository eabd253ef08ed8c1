// Package pagination implements the opaque page tokens the articles API
// hands out: a base64-wrapped (created_at, id) pair that orders rows totally
// even when several articles share a creation timestamp.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const cursorSeparator = ","

// RFC3339Nano keeps sub-second creation times distinguishable.
const timeFormat = time.RFC3339Nano

// EncodeCursor packs the last row of a page into an opaque cursor string.
func EncodeCursor(ts time.Time, id int64) string {
	key := ts.UTC().Format(timeFormat) + cursorSeparator + strconv.FormatInt(id, 10)
	return base64.URLEncoding.EncodeToString([]byte(key))
}

// DecodeCursor unpacks a cursor produced by EncodeCursor. The timestamp
// comes back in UTC.
func DecodeCursor(encodedCursor string) (time.Time, int64, error) {
	decoded, err := base64.URLEncoding.DecodeString(encodedCursor)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("cursor is not valid base64: %w", err)
	}

	parts := strings.SplitN(string(decoded), cursorSeparator, 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("cursor is missing its id part")
	}

	ts, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("cursor carries an invalid timestamp: %w", err)
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("cursor carries an invalid id: %w", err)
	}

	return ts.UTC(), id, nil
}
