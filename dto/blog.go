package dto

import (
	"time"

	"blog-api/models"
)

// BlogDTO is the public shape of a blog post. id is the ObjectID hex string.
type BlogDTO struct {
	ID        string    `json:"id" example:"65a1f0c2e4b0a1b2c3d4e5f6"`
	Title     string    `json:"title" example:"Hello"`
	Body      string    `json:"body" example:"World"`
	Author    string    `json:"author" example:"Alice"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewBlogDTO(b models.Blog) BlogDTO {
	return BlogDTO{
		ID:        b.ID.Hex(),
		Title:     b.Title,
		Body:      b.Body,
		Author:    b.Author,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func NewBlogDTOs(items []models.Blog) []BlogDTO {
	out := make([]BlogDTO, 0, len(items))
	for _, b := range items {
		out = append(out, NewBlogDTO(b))
	}
	return out
}

// CreateBlogRequest is the POST /blogs body. Presence of title, body and
// author is checked by the service, not by binding tags.
type CreateBlogRequest struct {
	Title     string     `json:"title" example:"Hello"`
	Body      string     `json:"body" example:"World"`
	Author    string     `json:"author" example:"Alice"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// UpdateBlogRequest is the PUT /blogs/{id} body. Omitted fields are left unchanged.
type UpdateBlogRequest struct {
	Title  *string `json:"title,omitempty" example:"X"`
	Body   *string `json:"body,omitempty"`
	Author *string `json:"author,omitempty"`
}

func (r UpdateBlogRequest) Patch() models.BlogPatch {
	return models.BlogPatch{Title: r.Title, Body: r.Body, Author: r.Author}
}
