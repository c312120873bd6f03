package domain

// Category is the unified view of a row from either the categories table or
// the legacy category table.
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Status      Status  `json:"status"`
}
