package dtos

type BlogRequest struct {
	Title   string   `json:"title" form:"title"`
	Content string   `json:"content" form:"content"`
	Tags    FlexList `json:"tags" form:"tags"`
	Image   string   `json:"image" form:"image"`
}

type BlogUpdateRequest struct {
	Title   *string  `json:"title" form:"title"`
	Content *string  `json:"content" form:"content"`
	Tags    FlexList `json:"tags" form:"tags"`
	Image   *string  `json:"image" form:"image"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type BlogListQuery struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

type CommentListQuery struct {
	Skip  int `form:"skip"`
	Limit int `form:"limit"`
}
