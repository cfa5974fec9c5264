package domain

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}
