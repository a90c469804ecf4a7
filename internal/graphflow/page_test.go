package graphflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/content"
	"portfolio/internal/display"
)

func TestAssemblerBuildsPage(t *testing.T) {
	a, err := NewAssembler()
	require.NoError(t, err)

	page, err := a.Build(context.Background(), PageInput{
		Sections:   []content.Section{{Key: content.KeyAboutMe, Headline: "Hello"}},
		SectionsOK: true,
		Projects:   []content.Project{{Title: "Shroomer", IsActive: true}},
		ProjectsOK: true,
		ArticlesOK: true,
		Topic:      " Compliance ",
		Year:       2026,
	})
	require.NoError(t, err)

	assert.False(t, page.Loading)
	assert.Equal(t, "Hello", page.About.Headline)
	assert.Equal(t, display.DefaultHeroHeadline, page.Hero.Headline)
	require.Len(t, page.Pillars.Cards, 1)
	assert.Equal(t, content.SizeLarge, page.Pillars.Cards[0].Layout)
	assert.Len(t, page.Knowledge.Articles, 2)
	assert.Contains(t, page.Footer.Copyright, "2026")
}

func TestAssemblerMarksLoading(t *testing.T) {
	a, err := NewAssembler()
	require.NoError(t, err)

	page, err := a.Build(context.Background(), PageInput{ProjectsOK: true, ArticlesOK: true, Year: 2026})
	require.NoError(t, err)
	assert.True(t, page.Loading)
	assert.True(t, page.Hero.Loading)
	assert.Equal(t, display.DefaultSiteName, page.Navigation.SiteName)
}

func TestNilAssembler(t *testing.T) {
	var a *Assembler
	_, err := a.Build(context.Background(), PageInput{})
	assert.Error(t, err)
}
