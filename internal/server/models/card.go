package models

// Card is a catalog card. The engine only consults the catalog for
// existence checks and cost aggregation; search lives elsewhere.
type Card struct {
	ID   string
	Name string
	Cost int
}
