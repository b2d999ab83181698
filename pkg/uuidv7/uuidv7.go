// Copyright (c) 2026 Mirrordex. All rights reserved.

// Package uuidv7 generates time-ordered UUIDs for database primary keys.
//
// UUIDv7 identifiers embed a millisecond timestamp in their most
// significant bits, so rows inserted over time cluster together in
// B-tree indexes. Statistics snapshots lean on this to stay roughly
// append-ordered on disk.
package uuidv7

import "github.com/google/uuid"

// New returns a new UUIDv7 string.
// It panics only if the system entropy source fails, which is treated
// as unrecoverable.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return id.String()
}
