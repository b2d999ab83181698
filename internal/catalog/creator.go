// Copyright (c) 2026 Mirrordex. All rights reserved.

package catalog

import "time"

// Creator represents an author or artist referenced by catalog entries.
//
// A single person can appear as both author and artist; Type records the
// role under which they were first seen.
type Creator struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Name      string            `json:"name"`
	ImageURL  string            `json:"image_url"`
	Biography map[string]string `json:"biography,omitempty"` // keyed by language code

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatorRelation connects a creator to an entry they worked on.
// RelatedType distinguishes the role ("author" or "artist").
type CreatorRelation struct {
	CreatorID   string `json:"creator_id"`
	RelatedID   string `json:"related_id"`
	RelatedType string `json:"related_type"`
}
