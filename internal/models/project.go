package models

import "time"

// Project is a portfolio entry shown on the public site.
type Project struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Technologies []string  `json:"technologies"`
	GithubURL    *string   `json:"githubUrl"`
	LiveURL      *string   `json:"liveUrl"`
	Image        string    `json:"image"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewProject is the request body accepted when creating a project.
type NewProject struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Technologies []string `json:"technologies" validate:"required,min=1,dive,required"`
	GithubURL    *string  `json:"githubUrl" validate:"omitempty,url"`
	LiveURL      *string  `json:"liveUrl" validate:"omitempty,url"`
	Image        string   `json:"image" validate:"required"`
	Featured     *bool    `json:"featured"`
}

// Project builds the stored row for a new project. Empty optional URLs become null.
func (n NewProject) Project(id int64, now time.Time) Project {
	p := Project{
		ID:           id,
		Title:        n.Title,
		Description:  n.Description,
		Category:     n.Category,
		Technologies: append([]string{}, n.Technologies...),
		GithubURL:    normalizeOptional(n.GithubURL),
		LiveURL:      normalizeOptional(n.LiveURL),
		Image:        n.Image,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if n.Featured != nil {
		p.Featured = *n.Featured
	}
	return p
}

// ProjectPatch is a partial update; nil fields are left untouched.
type ProjectPatch struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"`
	Technologies []string `json:"technologies" validate:"omitempty,min=1,dive,required"`
	GithubURL    *string  `json:"githubUrl" validate:"omitempty,url"`
	LiveURL      *string  `json:"liveUrl" validate:"omitempty,url"`
	Image        *string  `json:"image"`
	Featured     *bool    `json:"featured"`
}

// BlankFields lists required columns the patch would set to an empty string.
func (p ProjectPatch) BlankFields() []string {
	return blank(map[string]*string{
		"title":       p.Title,
		"description": p.Description,
		"category":    p.Category,
		"image":       p.Image,
	})
}

// Apply merges the patch into p and stamps updatedAt.
func (p ProjectPatch) Apply(dst *Project) {
	setString(&dst.Title, p.Title)
	setString(&dst.Description, p.Description)
	setString(&dst.Category, p.Category)
	setString(&dst.Image, p.Image)
	if p.Technologies != nil {
		dst.Technologies = append([]string{}, p.Technologies...)
	}
	if p.GithubURL != nil {
		dst.GithubURL = normalizeOptional(p.GithubURL)
	}
	if p.LiveURL != nil {
		dst.LiveURL = normalizeOptional(p.LiveURL)
	}
	if p.Featured != nil {
		dst.Featured = *p.Featured
	}
	dst.UpdatedAt = NextTimestamp(dst.UpdatedAt)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func normalizeOptional(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	s := *v
	return &s
}

func blank(fields map[string]*string) []string {
	var out []string
	for name, v := range fields {
		if v != nil && *v == "" {
			out = append(out, name)
		}
	}
	return out
}
