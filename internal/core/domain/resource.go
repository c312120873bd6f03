package domain

// Resource is a single row of the resources table as returned by the detail
// endpoint.
type Resource struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	CategoryID *int64  `json:"categoryId"`
	Synopsis   *string `json:"synopsis"`
	Icon       *string `json:"icon"`
	Status     Status  `json:"status"`
}

// ResourceSummary is the list view of a resource. CategoryNames holds the
// distinct display names of every category the resource is associated with,
// through its own category_id column or through the resource_category links.
type ResourceSummary struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	CategoryNames []string `json:"category_names"`
	Icon          *string  `json:"icon"`
	Status        Status   `json:"status"`
}
