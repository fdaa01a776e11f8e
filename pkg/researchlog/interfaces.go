package researchlog

import (
	"context"
	"io"
)

// ArticleRepository persists article documents keyed by id.
type ArticleRepository interface {
	// ListArticles returns every stored article in store order
	ListArticles(ctx context.Context) ([]*Article, error)

	// GetArticle returns the article stored under id
	GetArticle(ctx context.Context, id string) (*Article, error)

	// PutArticle writes the whole document, replacing any previous one
	PutArticle(ctx context.Context, article *Article) error

	// DeleteArticle removes the document only. Asset cleanup is the
	// service's job.
	DeleteArticle(ctx context.Context, id string) error
}

// BlobStore persists asset bytes keyed by stored filename.
type BlobStore interface {
	// Put writes the asset under name
	Put(ctx context.Context, name string, reader io.Reader) error

	// Get opens the asset stored under name
	Get(ctx context.Context, name string) (io.ReadCloser, error)

	// Remove deletes the asset. Removing a missing asset is not an error.
	Remove(ctx context.Context, name string) error
}

// EventSink receives notifications about store activity
type EventSink interface {
	// ArticleSaved is fired after an article is written
	ArticleSaved(ctx context.Context, article *Article) error

	// ArticleDeleted is fired after an article document is removed
	ArticleDeleted(ctx context.Context, report *DeleteReport) error

	// AssetStored is fired after an upload is written
	AssetStored(ctx context.Context, asset *StoredAsset) error

	// AssetRemoved is fired for each asset removed by a cascade
	AssetRemoved(ctx context.Context, fileName string) error

	// AssetRemoveFailed is fired for each asset a cascade could not remove
	AssetRemoveFailed(ctx context.Context, fileName string, err error) error
}
