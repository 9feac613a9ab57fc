package domain

// Book is a catalog record. AvailableCopies starts equal to TotalCopies
// and is mutated only by the loan lifecycle; the store enforces
// 0 <= available_copies <= total_copies.
type Book struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Year            *int   `json:"year,omitempty"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
}
