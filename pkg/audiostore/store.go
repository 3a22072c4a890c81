// Package audiostore archives uploaded recordings. Backends: none, local directory, S3-compatible bucket.
package audiostore

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Store interface {
	// Put stores data under key and returns the key it was stored at.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// NewKey builds a date-partitioned key that keeps the upload's extension.
func NewKey(ownerID uuid.UUID, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("audio/%s/%d/%02d/%02d/%s%s", ownerID, now.Year(), now.Month(), now.Day(), uuid.New(), ext)
}

// Nop keeps nothing and reports an empty key.
type Nop struct{}

func (Nop) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return "", nil
}
