package display

import (
	"slices"

	"portfolio/internal/content"
)

// Pillars renders the projects grid. projectsOK is false while the project
// cache has no data yet.
func Pillars(s Sections, projects []content.Project, projectsOK bool) PillarsView {
	v := PillarsView{
		Header:  header(s, content.KeyPillarsHeader, DefaultPillarsLabel, DefaultPillarsHeadline, DefaultPillarsBody),
		Loading: !projectsOK,
	}
	if !projectsOK {
		return v
	}
	active := make([]content.Project, 0, len(projects))
	for _, p := range projects {
		if p.IsActive {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		v.Hidden = true
		return v
	}
	v.Cards = make([]ProjectCard, len(active))
	for i, p := range active {
		v.Cards[i] = ProjectCard{Project: p, Layout: CardLayout(i, len(active), string(p.Size))}
	}
	return v
}

// KnowledgeHub renders the article grid filtered to topic. An unknown topic
// selects all articles; with no stored active article the built-in set is
// shown.
func KnowledgeHub(s Sections, articles []content.Article, articlesOK bool, topic string) KnowledgeView {
	active := AllTopics
	if tag, err := content.ParseArticleTag(topic); err == nil {
		active = string(tag)
	}

	v := KnowledgeView{
		Header:  header(s, content.KeyKnowledgeHeader, DefaultKnowledgeLabel, DefaultKnowledgeHeadline, DefaultKnowledgeBody),
		Loading: !articlesOK,
	}
	v.Topics = append(v.Topics, Topic{Name: AllTopics, Active: active == AllTopics})
	for _, c := range content.ArticleCategories {
		v.Topics = append(v.Topics, Topic{Name: string(c), Active: active == string(c)})
	}

	var stored []content.Article
	for _, a := range articles {
		if a.IsActive {
			stored = append(stored, a)
		}
	}
	if len(stored) == 0 {
		stored = FallbackArticles()
	}

	for _, a := range stored {
		if active != AllTopics && !slices.Contains(a.Tags, content.Category(active)) {
			continue
		}
		v.Articles = append(v.Articles, articleCard(a))
	}
	if len(v.Articles) == 0 {
		v.Empty = NoArticlesMessage
	}
	return v
}

func articleCard(a content.Article) ArticleCard {
	tags := make([]string, len(a.Tags))
	for i, t := range a.Tags {
		tags[i] = string(t)
	}
	return ArticleCard{
		Title:      a.Title,
		Summary:    a.Summary,
		ImageURL:   a.ImageURL,
		Tags:       tags,
		ArticleURL: or(a.ArticleURL, DefaultArticleURL),
		ReadTime:   or(a.ReadTime, content.DefaultReadTime),
	}
}
