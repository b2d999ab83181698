package schema

// EntryDescriptionTable represents the 'catalog.entry_description' table
type EntryDescriptionTable struct {
	Table       string
	EntryID     string
	LangCode    string
	Description string
}

// EntryDescription is the schema definition for catalog.entry_description
var EntryDescription = EntryDescriptionTable{
	Table:       "catalog.entry_description",
	EntryID:     "entryid",
	LangCode:    "langcode",
	Description: "description",
}
