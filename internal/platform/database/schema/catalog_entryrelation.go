package schema

// EntryRelationTable represents the 'catalog.entry_relation' table
type EntryRelationTable struct {
	Table     string
	EntryID   string
	RelatedID string
	Relation  string
	FetchedAt string
}

// EntryRelation is the schema definition for catalog.entry_relation
var EntryRelation = EntryRelationTable{
	Table:     "catalog.entry_relation",
	EntryID:   "entryid",
	RelatedID: "relatedid",
	Relation:  "relation",
	FetchedAt: "fetchedat",
}
