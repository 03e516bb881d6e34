package folio

import "time"

// BlogPost is the core content type stored in SQLite and returned by the API.
// IsPublished and IsDraft are always mutually exclusive; the store derives
// IsDraft from the published column on every read.
type BlogPost struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Excerpt        string     `json:"excerpt,omitempty"`
	Content        string     `json:"content"`
	ContentHTML    string     `json:"contentHtml,omitempty"`
	Author         string     `json:"author"`
	Category       string     `json:"category,omitempty"`
	Tags           []string   `json:"tags"`
	Thumbnail      string     `json:"thumbnail,omitempty"`
	FeaturedImage  string     `json:"featuredImage,omitempty"`
	ReadTime       int        `json:"readTime"`
	ViewCount      int64      `json:"viewCount"`
	IsPublished    bool       `json:"isPublished"`
	IsDraft        bool       `json:"isDraft"`
	PublishedAt    *time.Time `json:"publishedAt"`
	SEOTitle       string     `json:"seoTitle,omitempty"`
	SEODescription string     `json:"seoDescription,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Link returns the public URL path for the post.
func (p BlogPost) Link() string {
	return "/blogs/" + p.Slug
}

// DisplayDate is the date shown in listings: publish date when the post has
// one, creation date otherwise.
func (p BlogPost) DisplayDate() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// User is an admin credential row. Role is an opaque string; folio only
// checks session presence, not role contents.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreatePostRequest is the body of POST /blogs. Title, Content, and Author
// are required; everything else is optional.
type CreatePostRequest struct {
	Title          string   `json:"title"`
	Excerpt        string   `json:"excerpt"`
	Content        string   `json:"content"`
	Author         string   `json:"author"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	Thumbnail      string   `json:"thumbnail"`
	FeaturedImage  string   `json:"featuredImage"`
	IsPublished    bool     `json:"isPublished"`
	SEOTitle       string   `json:"seoTitle"`
	SEODescription string   `json:"seoDescription"`
}

// UpdatePostRequest is the body of PUT /blogs/:id. Nil pointer fields are
// left untouched, so the partial-update contract is visible in the type
// rather than hidden in dynamic field merging. ClearPublishedAt must be set
// explicitly to erase the publish timestamp when unpublishing.
type UpdatePostRequest struct {
	Title            *string   `json:"title"`
	Excerpt          *string   `json:"excerpt"`
	Content          *string   `json:"content"`
	Author           *string   `json:"author"`
	Category         *string   `json:"category"`
	Tags             *[]string `json:"tags"`
	Thumbnail        *string   `json:"thumbnail"`
	FeaturedImage    *string   `json:"featuredImage"`
	IsPublished      *bool     `json:"isPublished"`
	SEOTitle         *string   `json:"seoTitle"`
	SEODescription   *string   `json:"seoDescription"`
	ClearPublishedAt bool      `json:"clearPublishedAt"`
}

// Pagination describes one page of a filtered listing.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalPosts   int   `json:"totalPosts"`
	PageSize     int   `json:"pageSize"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
	VisiblePages []int `json:"visiblePages"`
}

// ListResponse is the body of GET /blogs.
type ListResponse struct {
	Blogs      []BlogPost `json:"blogs"`
	Pagination Pagination `json:"pagination"`
}
