package researchlog

import (
	"context"
	"io"
)

// Service defines the main interface for the article and asset store
type Service interface {
	// Article operations
	ListArticles(ctx context.Context) ([]ArticleSummary, error)
	GetArticle(ctx context.Context, id string) (*Article, error)
	SaveArticle(ctx context.Context, req SaveArticleRequest) (*Article, error)
	DeleteArticle(ctx context.Context, id string) (*DeleteReport, error)

	// ArticleReferences returns the distinct asset filenames an article embeds
	ArticleReferences(ctx context.Context, id string) ([]string, error)

	// Asset operations
	StoreAsset(ctx context.Context, originalFilename string, reader io.Reader) (*StoredAsset, error)
	ReadAsset(ctx context.Context, fileName string) (*Asset, error)
}

// SaveArticleRequest contains the fields of an article upsert. Empty ID and
// Date are generated.
type SaveArticleRequest struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date,omitempty"`
}
