package schema

// CreatorRelationTable represents the 'catalog.creator_relation' table
type CreatorRelationTable struct {
	Table       string
	CreatorID   string
	RelatedID   string
	RelatedType string
}

// CreatorRelation is the schema definition for catalog.creator_relation
var CreatorRelation = CreatorRelationTable{
	Table:       "catalog.creator_relation",
	CreatorID:   "creatorid",
	RelatedID:   "relatedid",
	RelatedType: "relatedtype",
}
