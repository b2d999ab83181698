package schema

// EntryLanguageTable represents the 'catalog.entry_language' table
type EntryLanguageTable struct {
	Table    string
	EntryID  string
	LangCode string
}

// EntryLanguage is the schema definition for catalog.entry_language
var EntryLanguage = EntryLanguageTable{
	Table:    "catalog.entry_language",
	EntryID:  "entryid",
	LangCode: "langcode",
}
