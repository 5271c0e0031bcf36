package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextTimestamp(t *testing.T) {
	future := time.Now().UTC().Add(time.Hour)
	assert.Equal(t, future.Add(time.Microsecond), NextTimestamp(future))

	past := time.Now().UTC().Add(-time.Hour)
	assert.True(t, NextTimestamp(past).After(past))
}

func TestNewProject_Project(t *testing.T) {
	empty := ""
	featured := true
	now := time.Now().UTC()

	p := NewProject{
		Title:        "Site",
		Technologies: []string{"Go"},
		GithubURL:    &empty,
		Featured:     &featured,
	}.Project(5, now)

	assert.Equal(t, int64(5), p.ID)
	assert.Nil(t, p.GithubURL)
	assert.Nil(t, p.LiveURL)
	assert.True(t, p.Featured)
	assert.Equal(t, now, p.CreatedAt)
}

func TestProjectPatch_Apply(t *testing.T) {
	created := time.Now().UTC().Add(-time.Minute)
	p := Project{
		Title:        "Old",
		Category:     "Web",
		Technologies: []string{"Go"},
		GithubURL:    StringPtr("https://github.com/x/y"),
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	var patch ProjectPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"New","githubUrl":"","featured":true}`), &patch))
	patch.Apply(&p)

	assert.Equal(t, "New", p.Title)
	assert.Equal(t, "Web", p.Category)
	assert.Equal(t, []string{"Go"}, p.Technologies)
	assert.Nil(t, p.GithubURL)
	assert.True(t, p.Featured)
	assert.True(t, p.UpdatedAt.After(created))
	assert.Equal(t, created, p.CreatedAt)
}

func TestBlankFields(t *testing.T) {
	empty := ""
	assert.ElementsMatch(t, []string{"title", "image"}, ProjectPatch{Title: &empty, Image: &empty}.BlankFields())
	assert.Empty(t, BlogPostPatch{}.BlankFields())
	assert.Equal(t, []string{"readTime"}, BlogPostPatch{ReadTime: &empty}.BlankFields())
}

func TestUser_JSONOmitsPassword(t *testing.T) {
	b, err := json.Marshal(User{ID: 1, Username: "alice", PasswordHash: "secret-hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret-hash")
	assert.Contains(t, string(b), `"email":null`)
}

func TestListColumns(t *testing.T) {
	assert.Equal(t, "[]", EncodeList(nil))

	decoded, err := DecodeList(EncodeList([]string{"a", "b"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, decoded)

	decoded, err = DecodeList("")
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
