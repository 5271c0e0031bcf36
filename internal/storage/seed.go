package storage

import (
	"time"

	"github.com/isdelr/portfolio-be/internal/models"
)

func sampleProjects(now time.Time) []models.Project {
	return []models.Project{
		{
			ID:           1,
			Title:        "AI-Powered Recipe App",
			Description:  "A smart recipe recommendation app using machine learning to suggest personalized meals based on dietary preferences and available ingredients.",
			Category:     "AI/ML",
			Technologies: []string{"Swift", "CoreML", "Python", "TensorFlow"},
			GithubURL:    models.StringPtr("https://github.com/username/recipe-app"),
			LiveURL:      models.StringPtr("https://recipe-app.com"),
			Image:        "/api/placeholder/400/300",
			Featured:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           2,
			Title:        "Real-time Chat Platform",
			Description:  "A scalable real-time messaging platform with end-to-end encryption and multimedia support.",
			Category:     "Web Development",
			Technologies: []string{"React", "Node.js", "Socket.io", "PostgreSQL"},
			GithubURL:    models.StringPtr("https://github.com/username/chat-platform"),
			LiveURL:      models.StringPtr("https://chat-platform.com"),
			Image:        "/api/placeholder/400/300",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

func sampleBlogPosts(now time.Time) []models.BlogPost {
	return []models.BlogPost{
		{
			ID:        1,
			Title:     "The Future of AI in Mobile Development",
			Excerpt:   "Exploring how artificial intelligence is reshaping the mobile app development landscape...",
			Content:   "# The Future of AI in Mobile Development\n\nArtificial intelligence is revolutionizing mobile development...",
			Category:  "AI/ML",
			Tags:      []string{"AI", "Mobile", "Machine Learning"},
			Image:     "/api/placeholder/400/300",
			ReadTime:  "5 min read",
			Published: true,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
