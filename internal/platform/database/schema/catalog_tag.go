package schema

// TagTable represents the 'catalog.tag' table
type TagTable struct {
	Table     string
	ID        string
	NameEn    string
	GroupName string
}

// Tag is the schema definition for catalog.tag
var Tag = TagTable{
	Table:     "catalog.tag",
	ID:        "id",
	NameEn:    "nameen",
	GroupName: "groupname",
}

func (t TagTable) Columns() []string {
	return []string{t.ID, t.NameEn, t.GroupName}
}
