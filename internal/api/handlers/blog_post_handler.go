package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/respond"
	"github.com/isdelr/portfolio-be/internal/storage"
	"github.com/isdelr/portfolio-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// BlogPostHandler handles HTTP requests related to blog posts.
type BlogPostHandler struct {
	store     storage.BlogPostStore
	validator *validation.Validator
}

func NewBlogPostHandler(store storage.BlogPostStore, v *validation.Validator) *BlogPostHandler {
	return &BlogPostHandler{store: store, validator: v}
}

func (h *BlogPostHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.GetBlogPosts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve blog posts")
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch blog posts")
		return
	}
	respond.JSON(w, http.StatusOK, posts)
}

func (h *BlogPostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	post, err := h.store.GetBlogPost(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Blog post not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("blog_post_id", id).Msg("Failed to get blog post by ID")
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch blog post")
		return
	}
	respond.JSON(w, http.StatusOK, post)
}

func (h *BlogPostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.NewBlogPost
	if !decodeAndValidate(w, r, h.validator, &in, "Invalid blog post data") {
		return
	}

	post, err := h.store.CreateBlogPost(r.Context(), in)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create blog post")
		respond.Error(w, http.StatusInternalServerError, "Failed to create blog post")
		return
	}

	log.Info().Int64("blog_post_id", post.ID).Str("title", post.Title).Msg("Created blog post")
	respond.JSON(w, http.StatusCreated, post)
}

func (h *BlogPostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var patch models.BlogPostPatch
	if !decodeAndValidate(w, r, h.validator, &patch, "Invalid blog post data") {
		return
	}

	post, err := h.store.UpdateBlogPost(r.Context(), id, patch)
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Blog post not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("blog_post_id", id).Msg("Failed to update blog post")
		respond.Error(w, http.StatusInternalServerError, "Failed to update blog post")
		return
	}
	respond.JSON(w, http.StatusOK, post)
}

func (h *BlogPostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteBlogPost(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("blog_post_id", id).Msg("Failed to delete blog post")
		respond.Error(w, http.StatusInternalServerError, "Failed to delete blog post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
