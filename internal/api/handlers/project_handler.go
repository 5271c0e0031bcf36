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

// ProjectHandler handles HTTP requests related to portfolio projects.
type ProjectHandler struct {
	store     storage.ProjectStore
	validator *validation.Validator
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(store storage.ProjectStore, v *validation.Validator) *ProjectHandler {
	return &ProjectHandler{store: store, validator: v}
}

// GetAll handles the request to get all projects.
func (h *ProjectHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.GetProjects(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve projects")
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}
	respond.JSON(w, http.StatusOK, projects)
}

// Get handles the request to get a single project by its ID.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	project, err := h.store.GetProject(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("project_id", id).Msg("Failed to get project by ID")
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch project")
		return
	}
	respond.JSON(w, http.StatusOK, project)
}

// Create handles the request to create a new project.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.NewProject
	if !decodeAndValidate(w, r, h.validator, &in, "Invalid project data") {
		return
	}

	project, err := h.store.CreateProject(r.Context(), in)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create project")
		respond.Error(w, http.StatusInternalServerError, "Failed to create project")
		return
	}

	log.Info().Int64("project_id", project.ID).Str("title", project.Title).Msg("Created project")
	respond.JSON(w, http.StatusCreated, project)
}

// Update handles the request to partially update an existing project.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var patch models.ProjectPatch
	if !decodeAndValidate(w, r, h.validator, &patch, "Invalid project data") {
		return
	}

	project, err := h.store.UpdateProject(r.Context(), id, patch)
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("project_id", id).Msg("Failed to update project")
		respond.Error(w, http.StatusInternalServerError, "Failed to update project")
		return
	}
	respond.JSON(w, http.StatusOK, project)
}

// Delete handles the request to delete a project. Deleting a missing
// project succeeds.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteProject(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("project_id", id).Msg("Failed to delete project")
		respond.Error(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
