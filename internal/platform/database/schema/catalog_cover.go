package schema

// CoverTable represents the 'catalog.cover' table
type CoverTable struct {
	Table        string
	ID           string
	EntryID      string
	Volume       string
	Locale       string
	Description  string
	FileName     string
	Version      string
	UploaderID   string
	ImageURL     string
	ImageData    string
	CreatedAt    string
	UpdatedAt    string
	DownloadedAt string
}

// Cover is the schema definition for catalog.cover
var Cover = CoverTable{
	Table:        "catalog.cover",
	ID:           "id",
	EntryID:      "entryid",
	Volume:       "volume",
	Locale:       "locale",
	Description:  "description",
	FileName:     "filename",
	Version:      "version",
	UploaderID:   "uploaderid",
	ImageURL:     "imageurl",
	ImageData:    "imagedata",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
	DownloadedAt: "downloadedat",
}

func (t CoverTable) Columns() []string {
	return []string{
		t.ID, t.EntryID, t.Volume, t.Locale, t.Description, t.FileName,
		t.Version, t.UploaderID, t.ImageURL, t.ImageData, t.CreatedAt,
		t.UpdatedAt, t.DownloadedAt,
	}
}
