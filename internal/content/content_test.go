package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionAt_StopsAtEnds(t *testing.T) {
	n := len(Sections())
	require.Equal(t, 6, n)

	assert.Equal(t, "hero", SectionAt(0).ID)
	assert.Equal(t, "skills", SectionAt(2).ID)
	assert.Equal(t, "contact", SectionAt(5).ID)
	assert.Equal(t, "contact", SectionAt(6).ID)
	assert.Equal(t, "contact", SectionAt(13).ID)
	assert.Equal(t, "hero", SectionAt(-1).ID)
}

func TestNextPrev(t *testing.T) {
	assert.Equal(t, "about", Next(0).ID)
	assert.Equal(t, "contact", Next(5).ID, "last section has no next")
	assert.Equal(t, "education", Prev(4).ID)
	assert.Equal(t, "hero", Prev(0).ID, "first section has no previous")
}

func TestSectionByID(t *testing.T) {
	s, ok := SectionByID(" Discord ")
	require.True(t, ok)
	assert.Equal(t, 4, s.Index)
	assert.Equal(t, "Discord", s.Title)

	_, ok = SectionByID("projects")
	assert.False(t, ok)
}

func TestSections_ReturnsCopy(t *testing.T) {
	s := Sections()
	s[0].ID = "changed"
	assert.Equal(t, "hero", SectionAt(0).ID)
}

func TestRotate(t *testing.T) {
	assert.Equal(t, 1, Rotate(0, 4))
	assert.Equal(t, 0, Rotate(3, 4))
	assert.Equal(t, 0, Rotate(1, 2))
	assert.Equal(t, 0, Rotate(5, 0))
	assert.Equal(t, 0, Rotate(-1, 3))
}

func TestDefault(t *testing.T) {
	site := Default("42", "octocat")

	assert.Equal(t, "https://github.com/octocat", site.Profile.GitHubURL)
	require.Len(t, site.Contact, 3)
	assert.Equal(t, "https://discord.com/users/42", site.Contact[0].Link)
	require.Len(t, site.Skills, 4)
	assert.Equal(t, "Frontend", site.Skills[0].Name)
	require.Len(t, site.Education, 2)

	for _, cat := range site.Skills {
		for _, sk := range cat.Items {
			assert.True(t, sk.Level >= 0 && sk.Level <= 100, sk.Name)
		}
	}
}
