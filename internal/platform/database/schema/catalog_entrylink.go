package schema

// EntryLinkTable represents the 'catalog.entry_link' table
type EntryLinkTable struct {
	Table    string
	EntryID  string
	Provider string
	URL      string
}

// EntryLink is the schema definition for catalog.entry_link
var EntryLink = EntryLinkTable{
	Table:    "catalog.entry_link",
	EntryID:  "entryid",
	Provider: "provider",
	URL:      "url",
}
