package schema

// EntryAltTitleTable represents the 'catalog.entry_alt_title' table
type EntryAltTitleTable struct {
	Table    string
	EntryID  string
	LangCode string
	Title    string
}

// EntryAltTitle is the schema definition for catalog.entry_alt_title
var EntryAltTitle = EntryAltTitleTable{
	Table:    "catalog.entry_alt_title",
	EntryID:  "entryid",
	LangCode: "langcode",
	Title:    "title",
}
