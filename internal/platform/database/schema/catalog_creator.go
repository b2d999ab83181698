package schema

// CreatorTable represents the 'catalog.creator' table
type CreatorTable struct {
	Table     string
	ID        string
	Type      string
	Name      string
	ImageURL  string
	Biography string
	CreatedAt string
	UpdatedAt string
}

// Creator is the schema definition for catalog.creator
var Creator = CreatorTable{
	Table:     "catalog.creator",
	ID:        "id",
	Type:      "type",
	Name:      "name",
	ImageURL:  "imageurl",
	Biography: "biography",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t CreatorTable) Columns() []string {
	return []string{t.ID, t.Type, t.Name, t.ImageURL, t.Biography, t.CreatedAt, t.UpdatedAt}
}
