package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-api/api/trace"
	"blog-api/dto"
	"blog-api/internal/logger"
	"blog-api/services"
)

const (
	msgFieldsRequired = "Title, body, and author are required"
	msgInvalidBody    = "Invalid request body"
	msgNotFound       = "Blog not found"
	msgInternal       = "Internal Server Error"
)

// CreateBlogHandler godoc
// @Summary      Create blog
// @Description  Create a blog post. title, body and author are required.
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        blog  body      dto.CreateBlogRequest  true  "Blog to create"
// @Success      201   {object}  dto.BlogDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorResponseDTO
// @Router       /blogs [post]
func CreateBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateBlogRequest
		if !bindJSON(c, &req) {
			return
		}

		b, err := svc.Create(c.Request.Context(), services.CreateBlogInput{
			Title:     req.Title,
			Body:      req.Body,
			Author:    req.Author,
			CreatedAt: req.CreatedAt,
		})
		if err != nil {
			respondError(c, "create blog", err)
			return
		}
		c.JSON(http.StatusCreated, dto.NewBlogDTO(*b))
	}
}

// ListBlogsHandler godoc
// @Summary      List blogs
// @Description  List every blog post in store order
// @Tags         blogs
// @Produce      json
// @Success      200  {array}   dto.BlogDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /blogs [get]
func ListBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, "list blogs", err)
			return
		}
		c.JSON(http.StatusOK, dto.NewBlogDTOs(items))
	}
}

// GetBlogHandler godoc
// @Summary      Get blog by id
// @Tags         blogs
// @Param        id   path      string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.BlogDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /blogs/{id} [get]
func GetBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, "get blog", err)
			return
		}
		c.JSON(http.StatusOK, dto.NewBlogDTO(*b))
	}
}

// UpdateBlogHandler godoc
// @Summary      Update blog
// @Description  Overwrite the supplied fields only. No field is required.
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ObjectID"
// @Param        blog  body      dto.UpdateBlogRequest  true  "Fields to overwrite"
// @Success      200   {object}  dto.BlogDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorResponseDTO
// @Router       /blogs/{id} [put]
func UpdateBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateBlogRequest
		if !bindJSON(c, &req) {
			return
		}

		b, err := svc.Update(c.Request.Context(), c.Param("id"), req.Patch())
		if err != nil {
			respondError(c, "update blog", err)
			return
		}
		c.JSON(http.StatusOK, dto.NewBlogDTO(*b))
	}
}

// DeleteBlogHandler godoc
// @Summary      Delete blog
// @Description  Delete a blog post and return it as it was
// @Tags         blogs
// @Param        id   path      string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.BlogDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /blogs/{id} [delete]
func DeleteBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := svc.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, "delete blog", err)
			return
		}
		c.JSON(http.StatusOK, dto.NewBlogDTO(*b))
	}
}

// bindJSON decodes the body into dst. An empty body leaves dst zero.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: msgInvalidBody})
		return false
	}
	return true
}

// respondError maps service errors to status codes. Store errors are logged
// and answered with a generic message.
func respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: msgFieldsRequired})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: msgNotFound})
	default:
		_ = c.Error(err)
		logger.ErrorWithFields(op+" failed", logger.Fields{
			"request_id": trace.RequestIDFromContext(c.Request.Context()),
			"blog_id":    c.Param("id"),
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: msgInternal})
	}
}
