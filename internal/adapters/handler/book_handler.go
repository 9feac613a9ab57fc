package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bibliotech/library-service/internal/core/ports"
)

type BookHandler struct {
	catalogService ports.CatalogService
}

func NewBookHandler(catalog ports.CatalogService) *BookHandler {
	return &BookHandler{catalogService: catalog}
}

type CreateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Year        *int   `json:"year,omitempty"`
	TotalCopies int    `json:"totalCopies"`
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Author == "" {
		writeError(w, http.StatusBadRequest, "title and author are required")
		return
	}

	book, err := h.catalogService.AddBook(r.Context(), req.Title, req.Author, req.Year, req.TotalCopies)
	if err != nil {
		internalError(w, "failed to create book", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":    book.ID,
		"title": book.Title,
	})
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalogService.ListBooks(r.Context())
	if err != nil {
		internalError(w, "failed to list books", err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}
