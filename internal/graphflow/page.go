// Package graphflow assembles the public page from cache snapshots with an
// eino graph: sections, then collections, then finalize.
package graphflow

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/compose"

	"portfolio/internal/content"
	"portfolio/internal/display"
)

type PageInput struct {
	Sections   []content.Section
	SectionsOK bool
	Projects   []content.Project
	ProjectsOK bool
	Articles   []content.Article
	ArticlesOK bool
	Topic      string
	Year       int
}

type sectionsStage struct {
	in       PageInput
	sections display.Sections
	page     display.Page
}

type Assembler struct {
	runnable compose.Runnable[PageInput, display.Page]
}

func NewAssembler() (*Assembler, error) {
	graph := compose.NewGraph[PageInput, display.Page]()
	if err := graph.AddLambdaNode("sections", compose.InvokableLambda(sectionsNode)); err != nil {
		return nil, err
	}
	if err := graph.AddLambdaNode("collections", compose.InvokableLambda(collectionsNode)); err != nil {
		return nil, err
	}
	if err := graph.AddLambdaNode("finalize", compose.InvokableLambda(finalizeNode)); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(compose.START, "sections"); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("sections", "collections"); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("collections", "finalize"); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("finalize", compose.END); err != nil {
		return nil, err
	}

	runnable, err := graph.Compile(context.Background(), compose.WithGraphName("public_page"))
	if err != nil {
		return nil, err
	}
	return &Assembler{runnable: runnable}, nil
}

func (a *Assembler) Build(ctx context.Context, in PageInput) (display.Page, error) {
	if a == nil || a.runnable == nil {
		return display.Page{}, errors.New("page graph not initialized")
	}
	return a.runnable.Invoke(ctx, in)
}

func sectionsNode(ctx context.Context, in PageInput) (sectionsStage, error) {
	s := display.NewSections(in.Sections, in.SectionsOK)
	return sectionsStage{
		in:       in,
		sections: s,
		page: display.Page{
			Navigation: display.Navigation(s),
			Hero:       display.Hero(s),
			About:      display.About(s),
			Brands:     display.Brands(s),
			Skills:     display.TechnicalSkills(s),
			Contact:    display.Contact(s),
			Footer:     display.Footer(s, in.Year),
		},
	}, nil
}

func collectionsNode(ctx context.Context, st sectionsStage) (sectionsStage, error) {
	st.page.Pillars = display.Pillars(st.sections, st.in.Projects, st.in.ProjectsOK)
	st.page.Knowledge = display.KnowledgeHub(st.sections, st.in.Articles, st.in.ArticlesOK, strings.TrimSpace(st.in.Topic))
	return st, nil
}

func finalizeNode(ctx context.Context, st sectionsStage) (display.Page, error) {
	page := st.page
	page.Loading = st.sections.Loading() || !st.in.ProjectsOK || !st.in.ArticlesOK
	return page, nil
}
