package memory

import (
	"context"
	"sync"

	"github.com/tendant/researchlog/pkg/researchlog"
)

// Repository implements researchlog.ArticleRepository using in-memory storage
type Repository struct {
	mu       sync.RWMutex
	articles map[string]*researchlog.Article
}

// New creates a new in-memory repository
func New() researchlog.ArticleRepository {
	return &Repository{
		articles: make(map[string]*researchlog.Article),
	}
}

func (r *Repository) ListArticles(ctx context.Context) ([]*researchlog.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	articles := make([]*researchlog.Article, 0, len(r.articles))
	for _, a := range r.articles {
		articleCopy := *a
		articles = append(articles, &articleCopy)
	}
	return articles, nil
}

func (r *Repository) GetArticle(ctx context.Context, id string) (*researchlog.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	article, exists := r.articles[id]
	if !exists {
		return nil, researchlog.ErrArticleNotFound
	}

	// Return a copy to avoid external modifications
	articleCopy := *article
	return &articleCopy, nil
}

func (r *Repository) PutArticle(ctx context.Context, article *researchlog.Article) error {
	if err := researchlog.ValidateName(article.ID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	articleCopy := *article
	r.articles[article.ID] = &articleCopy
	return nil
}

func (r *Repository) DeleteArticle(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.articles[id]; !exists {
		return researchlog.ErrArticleNotFound
	}
	delete(r.articles, id)
	return nil
}
