package models

import "time"

// BlogPost is a markdown article. Content is stored verbatim.
type BlogPost struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Image     string    `json:"image"`
	ReadTime  string    `json:"readTime"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBlogPost is the request body accepted when creating a blog post.
type NewBlogPost struct {
	Title     string   `json:"title" validate:"required"`
	Excerpt   string   `json:"excerpt" validate:"required"`
	Content   string   `json:"content" validate:"required"`
	Category  string   `json:"category" validate:"required"`
	Tags      []string `json:"tags" validate:"required,dive,required"`
	Image     string   `json:"image" validate:"required"`
	ReadTime  string   `json:"readTime" validate:"required"`
	Published *bool    `json:"published"`
}

func (n NewBlogPost) BlogPost(id int64, now time.Time) BlogPost {
	b := BlogPost{
		ID:        id,
		Title:     n.Title,
		Excerpt:   n.Excerpt,
		Content:   n.Content,
		Category:  n.Category,
		Tags:      append([]string{}, n.Tags...),
		Image:     n.Image,
		ReadTime:  n.ReadTime,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if n.Published != nil {
		b.Published = *n.Published
	}
	return b
}

// BlogPostPatch is a partial update; nil fields are left untouched.
type BlogPostPatch struct {
	Title     *string  `json:"title"`
	Excerpt   *string  `json:"excerpt"`
	Content   *string  `json:"content"`
	Category  *string  `json:"category"`
	Tags      []string `json:"tags" validate:"omitempty,dive,required"`
	Image     *string  `json:"image"`
	ReadTime  *string  `json:"readTime"`
	Published *bool    `json:"published"`
}

func (p BlogPostPatch) BlankFields() []string {
	return blank(map[string]*string{
		"title":    p.Title,
		"excerpt":  p.Excerpt,
		"content":  p.Content,
		"category": p.Category,
		"image":    p.Image,
		"readTime": p.ReadTime,
	})
}

func (p BlogPostPatch) Apply(dst *BlogPost) {
	setString(&dst.Title, p.Title)
	setString(&dst.Excerpt, p.Excerpt)
	setString(&dst.Content, p.Content)
	setString(&dst.Category, p.Category)
	setString(&dst.Image, p.Image)
	setString(&dst.ReadTime, p.ReadTime)
	if p.Tags != nil {
		dst.Tags = append([]string{}, p.Tags...)
	}
	if p.Published != nil {
		dst.Published = *p.Published
	}
	dst.UpdatedAt = NextTimestamp(dst.UpdatedAt)
}
