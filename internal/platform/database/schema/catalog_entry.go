package schema

// EntryTable represents the 'catalog.entry' table
type EntryTable struct {
	Table                 string
	ID                    string
	Type                  string
	Title                 string
	Slug                  string
	ChapterNumbersReset   string
	ContentRating         string
	IsLocked              string
	LastChapter           string
	LastVolume            string
	LatestUploadedChapter string
	OriginalLanguage      string
	Demographic           string
	State                 string
	Status                string
	Year                  string
	Links                 string
	CreatedAt             string
	UpdatedAt             string
	LastSyncedAt          string
}

// Entry is the schema definition for catalog.entry
var Entry = EntryTable{
	Table:                 "catalog.entry",
	ID:                    "id",
	Type:                  "type",
	Title:                 "title",
	Slug:                  "slug",
	ChapterNumbersReset:   "chapternumbersreset",
	ContentRating:         "contentrating",
	IsLocked:              "islocked",
	LastChapter:           "lastchapter",
	LastVolume:            "lastvolume",
	LatestUploadedChapter: "latestuploadedchapter",
	OriginalLanguage:      "originallanguage",
	Demographic:           "demographic",
	State:                 "state",
	Status:                "status",
	Year:                  "year",
	Links:                 "links",
	CreatedAt:             "createdat",
	UpdatedAt:             "updatedat",
	LastSyncedAt:          "lastsyncedat",
}

func (t EntryTable) Columns() []string {
	return []string{
		t.ID, t.Type, t.Title, t.Slug, t.ChapterNumbersReset, t.ContentRating,
		t.IsLocked, t.LastChapter, t.LastVolume, t.LatestUploadedChapter,
		t.OriginalLanguage, t.Demographic, t.State, t.Status, t.Year, t.Links,
		t.CreatedAt, t.UpdatedAt, t.LastSyncedAt,
	}
}
