package display

import "portfolio/internal/content"

const (
	DefaultSiteName = "Seraiah"

	DefaultHeroBadge    = "Available for Strategic Projects"
	DefaultHeroHeadline = "Digital Strategy & Growth"
	DefaultHeroAccent   = "for High-Stakes Brands"
	DefaultHeroBody     = "Scaling audiences to 22k+, building AI-native SaaS solutions, and translating complex data into science-backed narratives."

	DefaultAboutHeadline = "Strategist, Builder, and Occasional Forager."
	DefaultAboutBody     = "I help brands in wellness, education and technology grow audiences they can keep, with strategy grounded in data and science."
	DefaultAboutImage    = "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=600&h=800&fit=crop"

	DefaultBrandsLabel = "Trusted By Industry Leaders"

	DefaultPillarsLabel    = "What I Do"
	DefaultPillarsHeadline = "Strategic Pillars"
	DefaultPillarsBody     = "Three core competencies that drive results for high-stakes brands and complex challenges."

	DefaultKnowledgeLabel    = "Insights"
	DefaultKnowledgeHeadline = "Knowledge Hub"
	DefaultKnowledgeBody     = "Insights, case studies, and strategic thinking across industries."
	NoArticlesMessage        = "No articles found for this category."
	AllTopics                = "All"

	DefaultSkillsHeadline = "Technical Stack"
	DefaultSkillsBody     = "Modern tools and workflows for building and scaling digital products."

	DefaultContactLabel    = "Let's Connect"
	DefaultContactHeadline = "Let's Work Together"
	DefaultContactBody     = "Open to remote roles in content, writing, and marketing. Feel free to reach out."
	DefaultContactCTA      = "Send Message"

	DefaultFooterTagline = "Growth & Digital Strategist"
	DefaultFooterOwner   = "Seraiah Alexander"

	DefaultArticleURL = "#"
)

var (
	DefaultHeroCTA          = Link{Label: "View My Work", Href: "#pillars"}
	DefaultHeroSecondaryCTA = Link{Label: "Get in Touch", Href: "#contact"}
)

func defaultNavLinks() []Link {
	return []Link{
		{Href: "#about", Label: "About Me"},
		{Href: "#pillars", Label: "Growth & Strategy"},
		{Href: "#gallery", Label: "Content Gallery"},
		{Href: "#projects", Label: "Technical Projects"},
		{Href: "#contact", Label: "Contact"},
	}
}

func defaultBrands() []Brand {
	return []Brand{
		{Name: "NCAA", Initials: "NCAA"},
		{Name: "Etsy", Initials: "Etsy"},
		{Name: "Shroomer", Initials: "Shroomer"},
		{Name: "Santa Cruz County Schools", Initials: "SCCS"},
	}
}

func defaultSkills() []Skill {
	return []Skill{
		{Name: "AI-Native Workflows", Tools: "Cursor, Gemini, Claude", Icon: "sparkles"},
		{Name: "Backend & Database", Tools: "Supabase, PostgreSQL", Icon: "database"},
		{Name: "SEO & SEM", Tools: "Technical SEO, Content Strategy", Icon: "search"},
		{Name: "Lifecycle Marketing", Tools: "Email, SMS, Automation", Icon: "mail"},
		{Name: "Technical Writing", Tools: "Documentation, API Guides", Icon: "file-text"},
	}
}

func defaultFooterLinks() []Link {
	return []Link{
		{Label: "LinkedIn", Href: "https://linkedin.com"},
		{Label: "Twitter", Href: "https://twitter.com"},
		{Label: "GitHub", Href: "https://github.com"},
	}
}

// FallbackArticles are shown when no active article is stored.
func FallbackArticles() []content.Article {
	mk := func(title, summary, image, url string, tags ...content.Category) content.Article {
		return content.Article{
			Title:      title,
			Summary:    summary,
			ImageURL:   image,
			ArticleURL: url,
			Tags:       tags,
			ReadTime:   content.DefaultReadTime,
			IsActive:   true,
		}
	}
	return []content.Article{
		mk("The Science of Metabolic Flexibility",
			"How understanding metabolic adaptation can transform supplement marketing and consumer trust.",
			"https://images.unsplash.com/photo-1509316975850-ff9c5deb0cd9?w=800&auto=format&fit=crop",
			"#metabolic-flexibility",
			content.CategoryMetabolicHealth, content.CategorySEOGrowth),
		mk("NCAA NIL Compliance: A Content Strategy Framework",
			"Navigating the complex landscape of Name, Image, and Likeness regulations through clear communication.",
			"https://images.unsplash.com/photo-1501854140801-50d01698950b?w=800&auto=format&fit=crop",
			"#ncaa-nil-compliance",
			content.CategoryCompliance, content.CategoryEducationStrategy),
		mk("Building AI-Native SaaS: Lessons from ClassOptic",
			"From concept to MVP using Cursor, React, and Supabase: a founder's technical journey.",
			"https://images.unsplash.com/photo-1470071459604-3b5ec3a7fe05?w=800&auto=format&fit=crop",
			"#ai-native-saas",
			content.CategorySEOGrowth),
		mk("Data-Driven Content for EdTech Platforms",
			"How ZenEducate transformed complex educational metrics into actionable insights for schools.",
			"https://images.unsplash.com/photo-1433086966358-54859d0ed716?w=800&auto=format&fit=crop",
			"#edtech-content",
			content.CategoryEducationStrategy),
		mk("The 22k Subscriber Playbook",
			"A deep dive into the organic growth strategies that scaled Shroomer from zero to engaged community.",
			"https://images.unsplash.com/photo-1465146344425-f00d5f5c8f07?w=800&auto=format&fit=crop",
			"#subscriber-playbook",
			content.CategorySEOGrowth, content.CategoryMetabolicHealth),
		mk("Regulatory Communication in Wellness Brands",
			"Balancing FDA compliance with compelling storytelling in the supplement industry.",
			"https://images.unsplash.com/photo-1482938289607-e9573fc25ebb?w=800&auto=format&fit=crop",
			"#regulatory-communication",
			content.CategoryCompliance, content.CategoryMetabolicHealth),
	}
}
