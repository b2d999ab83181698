package schema

// ChapterTable represents the 'catalog.chapter' table
type ChapterTable struct {
	Table          string
	ID             string
	EntryID        string
	Type           string
	Volume         string
	Number         string
	Title          string
	TranslatedLang string
	Pages          string
	PublishAt      string
	ReadableAt     string
	IsUnavailable  string
	CreatedAt      string
	UpdatedAt      string
}

// Chapter is the schema definition for catalog.chapter
var Chapter = ChapterTable{
	Table:          "catalog.chapter",
	ID:             "id",
	EntryID:        "entryid",
	Type:           "type",
	Volume:         "volume",
	Number:         "number",
	Title:          "title",
	TranslatedLang: "translatedlang",
	Pages:          "pages",
	PublishAt:      "publishat",
	ReadableAt:     "readableat",
	IsUnavailable:  "isunavailable",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

func (t ChapterTable) Columns() []string {
	return []string{
		t.ID, t.EntryID, t.Type, t.Volume, t.Number, t.Title, t.TranslatedLang,
		t.Pages, t.PublishAt, t.ReadableAt, t.IsUnavailable, t.CreatedAt, t.UpdatedAt,
	}
}
