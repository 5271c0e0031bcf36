package validation

import (
	"testing"

	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupBody struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
	Email           string `json:"email" validate:"omitempty,email"`
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	err := v.Struct(signupBody{Username: "alice", Password: "pw12345"})
	assert.NoError(t, err)
}

func TestStruct_FieldMessages(t *testing.T) {
	v := New()
	err := v.Struct(signupBody{Username: "al", Password: "pw12345", ConfirmPassword: "other", Email: "nope"})
	require.Error(t, err)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "must be at least 3 characters", errs["username"])
	assert.Equal(t, "must match password", errs["confirmPassword"])
	assert.Equal(t, "must be a valid email address", errs["email"])
	assert.NotContains(t, errs, "password")
}

func TestStruct_NewProject(t *testing.T) {
	v := New()
	bad := "not a url"
	err := v.Struct(models.NewProject{
		Title:        "x",
		Description:  "y",
		Category:     "web",
		Technologies: []string{},
		GithubURL:    &bad,
		Image:        "img.png",
	})

	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "must contain at least 1 item(s)", errs["technologies"])
	assert.Equal(t, "must be a valid URL", errs["githubUrl"])
	assert.Len(t, errs, 2)
}

func TestStruct_PatchBlankFields(t *testing.T) {
	v := New()
	empty := ""
	title := "New title"

	err := v.Struct(models.ProjectPatch{Title: &title})
	assert.NoError(t, err)

	err = v.Struct(models.ProjectPatch{Title: &empty})
	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "must not be empty", errs["title"])
}

func TestErrors_Error(t *testing.T) {
	e := Errors{"b": "is required", "a": "is invalid"}
	assert.Equal(t, "validation failed: a is invalid, b is required", e.Error())
}
