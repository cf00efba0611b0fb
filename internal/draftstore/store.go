package draftstore

import (
	"context"
	"encoding/json"
	"fmt"

	"studio/internal/model"
)

// Store persists one draft snapshot per key.
type Store interface {
	// Save overwrites the snapshot stored under key.
	Save(ctx context.Context, key string, d *model.Draft) error
	// Load returns the snapshot under key, or nil if none exists.
	Load(ctx context.Context, key string) (*model.Draft, error)
	// Delete removes the snapshot under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Key returns the storage key for a user's wizard draft.
func Key(userID string) string {
	return fmt.Sprintf("course-draft-%s", userID)
}

func encode(d *model.Draft) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*model.Draft, error) {
	var d model.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &d, nil
}
