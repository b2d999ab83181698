package schema

// EntryTagTable represents the 'catalog.entry_tag' table
type EntryTagTable struct {
	Table   string
	EntryID string
	TagID   string
}

// EntryTag is the schema definition for catalog.entry_tag
var EntryTag = EntryTagTable{
	Table:   "catalog.entry_tag",
	EntryID: "entryid",
	TagID:   "tagid",
}
