// Copyright (c) 2026 Mirrordex. All rights reserved.

package catalog

// Tag represents a genre, theme, or format classifier from the shared
// upstream vocabulary.
type Tag struct {
	ID        string `json:"id"`
	NameEn    string `json:"name_en"`
	GroupName string `json:"group_name"`
}
