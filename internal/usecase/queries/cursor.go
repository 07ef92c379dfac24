package queries

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxListLimit    = 200
	cursorVersionV1 = "v1"
)

type Cursor struct {
	After string `json:"after,omitempty"`
}

// Uses microsecond precision to align with PostgreSQL timestamp precision
func EncodeAfterCursor(t time.Time, id uuid.UUID) string {
	cursorData := fmt.Sprintf("%s:%d-%s", cursorVersionV1, t.UnixMicro(), id.String())
	return base64.URLEncoding.EncodeToString([]byte(cursorData))
}

func DecodeAfterCursor(cursor string) (time.Time, uuid.UUID, error) {
	if cursor == "" {
		return time.Time{}, uuid.Nil, fmt.Errorf("cursor cannot be empty")
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor encoding: %w", err)
	}

	payload, ok := strings.CutPrefix(string(decoded), cursorVersionV1+":")
	if !ok {
		return time.Time{}, uuid.Nil, fmt.Errorf("unsupported cursor version")
	}

	parts := strings.SplitN(payload, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor format: expected '<micros>-<uuid>'")
	}

	timestamp, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid timestamp: %w", err)
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid UUID: %w", err)
	}

	return time.UnixMicro(timestamp), id, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default limit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
