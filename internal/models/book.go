package models

// Book is the single persisted resource.
type Book struct {
	ID              int64  `json:"id" example:"1"`
	Title           string `json:"title" example:"Dune"`
	Author          string `json:"author" example:"Frank Herbert"`
	PublicationYear int64  `json:"publication_year" example:"1965"`
} // @name Book

// BookInput carries the three mutable fields of a Book on create and update.
// Update is a full replace, so every field is required.
type BookInput struct {
	Title           string `json:"title" example:"Dune"`
	Author          string `json:"author" example:"Frank Herbert"`
	PublicationYear int64  `json:"publication_year" example:"1965"`
} // @name BookInput

// WithID builds the Book that results from storing the input under id.
func (in BookInput) WithID(id int64) Book {
	return Book{
		ID:              id,
		Title:           in.Title,
		Author:          in.Author,
		PublicationYear: in.PublicationYear,
	}
}

