package common

// IdNameDTO is the nested reference shape the backend uses for related rows.
type IdNameDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
