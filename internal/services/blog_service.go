package services

import (
	"context"
	"errors"
	"math"
	"mime/multipart"
	"strings"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/policy"
	"github.com/justsurfingit/job-portal/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	defaultBlogPage     = 1
	defaultBlogLimit    = 10
	maxBlogLimit        = 100
	defaultCommentLimit = 20
	maxCommentLimit     = 100

	msgBlogNotFound  = "Blog not found."
	msgBlogForbidden = "You are not authorized to modify this blog."
)

var blogSortColumns = map[string]string{
	"createdAt": database.BlogSortCreatedAt,
	"updatedAt": database.BlogSortUpdatedAt,
	"title":     database.BlogSortTitle,
}

type BlogInput struct {
	Title     string
	Content   string
	Tags      []string
	Image     string
	ImageFile *multipart.FileHeader
}

// BlogPatch changes only non-nil fields.
type BlogPatch struct {
	Title     *string
	Content   *string
	Tags      []string
	Image     *string
	ImageFile *multipart.FileHeader
}

type BlogListParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

type BlogPage struct {
	Blogs      []models.Blog `json:"blogs"`
	Pagination Pagination    `json:"pagination"`
}

type CommentPage struct {
	Comments []models.Comment `json:"comments"`
	Total    int64            `json:"total"`
}

type BlogService struct {
	store database.Store
	files storage.Store
	log   logrus.FieldLogger
}

func NewBlogService(store database.Store, files storage.Store, log logrus.FieldLogger) *BlogService {
	return &BlogService{store: store, files: files, log: log}
}

func (s *BlogService) Create(ctx context.Context, authorID uint, in BlogInput) (*models.Blog, error) {
	title, content := strings.TrimSpace(in.Title), strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, apperr.Validation("Title and content are required.")
	}
	b := &models.Blog{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
		Tags:     in.Tags,
		Image:    strings.TrimSpace(in.Image),
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if in.ImageFile != nil {
		url, err := upload(ctx, s.files, in.ImageFile, "blogs")
		if err != nil {
			return nil, err
		}
		b.Image = url
	}
	if err := s.store.CreateBlog(ctx, b); err != nil {
		return nil, apperr.Internal("failed to create blog", err)
	}
	s.log.WithFields(logrus.Fields{"blog_id": b.ID, "user_id": authorID}).Info("blog created")
	return b, nil
}

// List returns one page of blogs. Out-of-range parameters fall back to defaults.
func (s *BlogService) List(ctx context.Context, p BlogListParams) (*BlogPage, error) {
	page, limit := p.Page, p.Limit
	if page < 1 {
		page = defaultBlogPage
	}
	if limit < 1 {
		limit = defaultBlogLimit
	}
	if limit > maxBlogLimit {
		limit = maxBlogLimit
	}
	column, ok := blogSortColumns[p.SortBy]
	if !ok {
		column = database.BlogSortCreatedAt
	}

	blogs, total, err := s.store.ListBlogs(ctx, database.BlogQuery{
		Offset: (page - 1) * limit,
		Limit:  limit,
		SortBy: column,
		Desc:   !strings.EqualFold(p.SortOrder, "asc"),
	})
	if err != nil {
		return nil, apperr.Internal("failed to list blogs", err)
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}
	return &BlogPage{
		Blogs: blogs,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

func (s *BlogService) Get(ctx context.Context, id uint) (*models.Blog, error) {
	b, err := s.store.GetBlog(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound(msgBlogNotFound)
	}
	if err != nil {
		return nil, apperr.Internal("failed to load blog", err)
	}
	return b, nil
}

func (s *BlogService) ByAuthor(ctx context.Context, authorID uint) ([]models.Blog, error) {
	blogs, err := s.store.ListBlogsByAuthor(ctx, authorID)
	if err != nil {
		return nil, apperr.Internal("failed to list blogs", err)
	}
	return blogs, nil
}

func (s *BlogService) Update(ctx context.Context, actor policy.Actor, id uint, in BlogPatch) (*models.Blog, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.Owner(b.AuthorID), msgBlogForbidden); err != nil {
		return nil, err
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) != "" {
		b.Content = strings.TrimSpace(*in.Content)
	}
	if in.Tags != nil {
		b.Tags = in.Tags
	}
	if in.Image != nil {
		b.Image = strings.TrimSpace(*in.Image)
	}
	if in.ImageFile != nil {
		url, err := upload(ctx, s.files, in.ImageFile, "blogs")
		if err != nil {
			return nil, err
		}
		b.Image = url
	}

	if err := s.store.UpdateBlog(ctx, b); err != nil {
		return nil, apperr.Internal("failed to update blog", err)
	}
	s.log.WithField("blog_id", id).Info("blog updated")
	return b, nil
}

// Delete removes the blog and its comments.
func (s *BlogService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.Owner(b.AuthorID), msgBlogForbidden); err != nil {
		return err
	}
	if err := s.store.DeleteBlog(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound(msgBlogNotFound)
		}
		return apperr.Internal("failed to delete blog", err)
	}
	s.log.WithField("blog_id", id).Info("blog deleted")
	return nil
}

func (s *BlogService) AddComment(ctx context.Context, authorID, blogID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("Comment content is required.")
	}
	if _, err := s.Get(ctx, blogID); err != nil {
		return nil, err
	}
	c := &models.Comment{Content: content, AuthorID: authorID, BlogID: blogID}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, apperr.Internal("failed to add comment", err)
	}
	if author, err := s.store.GetUser(ctx, authorID); err == nil {
		c.Author = &models.User{ID: author.ID, Fullname: author.Fullname, Email: author.Email}
	}
	return c, nil
}

// Comments returns a newest-first slice of the blog's comments and their total.
func (s *BlogService) Comments(ctx context.Context, blogID uint, skip, limit int) (*CommentPage, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = defaultCommentLimit
	}
	if limit > maxCommentLimit {
		limit = maxCommentLimit
	}
	comments, total, err := s.store.ListComments(ctx, blogID, skip, limit)
	if err != nil {
		return nil, apperr.Internal("failed to list comments", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return &CommentPage{Comments: comments, Total: total}, nil
}
