package schema

// StatisticTable represents the 'catalog.statistic' table
type StatisticTable struct {
	Table               string
	ID                  string
	EntryID             string
	Source              string
	Follows             string
	AverageRating       string
	BayesianRating      string
	UnavailableChapters string
	FetchedAt           string
}

// Statistic is the schema definition for catalog.statistic
var Statistic = StatisticTable{
	Table:               "catalog.statistic",
	ID:                  "id",
	EntryID:             "entryid",
	Source:              "source",
	Follows:             "follows",
	AverageRating:       "averagerating",
	BayesianRating:      "bayesianrating",
	UnavailableChapters: "unavailablechapters",
	FetchedAt:           "fetchedat",
}

func (t StatisticTable) Columns() []string {
	return []string{
		t.ID, t.EntryID, t.Source, t.Follows, t.AverageRating,
		t.BayesianRating, t.UnavailableChapters, t.FetchedAt,
	}
}
