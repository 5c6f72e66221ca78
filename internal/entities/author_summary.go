package entities

// AuthorSummary is an author with the number of titles referencing it.
type AuthorSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	TitleCount int64  `json:"title_count"`
}
