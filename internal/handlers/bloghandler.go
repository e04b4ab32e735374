package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/sirupsen/logrus"
)

type BlogHandler struct {
	blogs *services.BlogService
	log   logrus.FieldLogger
}

func NewBlogHandler(blogs *services.BlogService, log logrus.FieldLogger) *BlogHandler {
	return &BlogHandler{blogs: blogs, log: log}
}

func (h *BlogHandler) Create(c *gin.Context) {
	var req dtos.BlogRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}
	blog, err := h.blogs.Create(c.Request.Context(), middleware.UserID(c), services.BlogInput{
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags.Strings(),
		Image:     req.Image,
		ImageFile: formFile(c, "file"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Blog created successfully.", "blog": blog, "success": true})
}

func (h *BlogHandler) List(c *gin.Context) {
	var q dtos.BlogListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	page, err := h.blogs.List(c.Request.Context(), services.BlogListParams{
		Page:      q.Page,
		Limit:     q.Limit,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": page.Blogs, "pagination": page.Pagination, "success": true})
}

func (h *BlogHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	blog, err := h.blogs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog": blog, "success": true})
}

func (h *BlogHandler) ByAuthor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	blogs, err := h.blogs.ByAuthor(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": blogs, "success": true})
}

func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dtos.BlogUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}
	patch := services.BlogPatch{
		Title:     req.Title,
		Content:   req.Content,
		Image:     req.Image,
		ImageFile: formFile(c, "file"),
	}
	if req.Tags.IsSet() {
		patch.Tags = req.Tags.Strings()
	}
	blog, err := h.blogs.Update(c.Request.Context(), middleware.Actor(c), id, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog updated successfully.", "blog": blog, "success": true})
}

func (h *BlogHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.blogs.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully.", "success": true})
}

func (h *BlogHandler) AddComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dtos.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	comment, err := h.blogs.AddComment(c.Request.Context(), middleware.UserID(c), id, req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Comment added successfully.", "comment": comment, "success": true})
}

func (h *BlogHandler) Comments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q dtos.CommentListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	page, err := h.blogs.Comments(c.Request.Context(), id, q.Skip, q.Limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": page.Comments, "total": page.Total, "success": true})
}
