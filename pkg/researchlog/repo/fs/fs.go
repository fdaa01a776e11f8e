package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/researchlog/internal/fsutil"
	"github.com/tendant/researchlog/pkg/researchlog"
)

const (
	backendName = "fs"
	docExt      = ".json"
)

// Repository is a filesystem implementation of researchlog.ArticleRepository.
// Each article is stored as <BaseDir>/<id>.json.
type Repository struct {
	baseDir string
}

// Config options for the filesystem repository
type Config struct {
	BaseDir string // Directory holding one JSON document per article
}

// New creates a new filesystem article repository
func New(config Config) (researchlog.ArticleRepository, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := fsutil.EnsureDir(config.BaseDir); err != nil {
		return nil, err
	}

	return &Repository{baseDir: config.BaseDir}, nil
}

func (r *Repository) path(id string) string {
	return filepath.Join(r.baseDir, id+docExt)
}

func (r *Repository) storageError(op, key string, err error) error {
	return &researchlog.StorageError{Backend: backendName, Key: key, Op: op, Err: err}
}

// ListArticles reads every document in the base directory. The id of each
// listed article is its filename stem.
func (r *Repository) ListArticles(ctx context.Context) ([]*researchlog.Article, error) {
	if err := fsutil.EnsureDir(r.baseDir); err != nil {
		return nil, r.storageError("list", r.baseDir, researchlog.IOFailure(err))
	}

	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, r.storageError("list", r.baseDir, researchlog.IOFailure(err))
	}

	articles := make([]*researchlog.Article, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || fsutil.IsTemp(name) || !strings.HasSuffix(name, docExt) {
			continue
		}
		id := strings.TrimSuffix(name, docExt)

		article, err := r.read(id)
		if err != nil {
			// Deleted between ReadDir and read.
			if errors.Is(err, researchlog.ErrNotFound) {
				continue
			}
			return nil, r.storageError("list", id, err)
		}
		article.ID = id
		articles = append(articles, article)
	}

	return articles, nil
}

func (r *Repository) GetArticle(ctx context.Context, id string) (*researchlog.Article, error) {
	if err := researchlog.ValidateName(id); err != nil {
		return nil, r.storageError("get", id, researchlog.ErrArticleNotFound)
	}

	article, err := r.read(id)
	if err != nil {
		return nil, r.storageError("get", id, err)
	}
	if article.ID == "" {
		article.ID = id
	}
	return article, nil
}

func (r *Repository) read(id string) (*researchlog.Article, error) {
	data, err := os.ReadFile(r.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, researchlog.ErrArticleNotFound
	} else if err != nil {
		return nil, researchlog.IOFailure(err)
	}

	var article researchlog.Article
	if err := json.Unmarshal(data, &article); err != nil {
		return nil, researchlog.ParseFailure(err)
	}
	return &article, nil
}

// PutArticle writes the article as indented JSON, replacing any previous
// document atomically.
func (r *Repository) PutArticle(ctx context.Context, article *researchlog.Article) error {
	if err := researchlog.ValidateName(article.ID); err != nil {
		return r.storageError("put", article.ID, err)
	}
	if err := fsutil.EnsureDir(r.baseDir); err != nil {
		return r.storageError("put", article.ID, researchlog.IOFailure(err))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(article); err != nil {
		return r.storageError("put", article.ID, researchlog.IOFailure(err))
	}

	if err := fsutil.WriteFile(r.baseDir, article.ID+docExt, &buf); err != nil {
		return r.storageError("put", article.ID, researchlog.IOFailure(err))
	}
	return nil
}

func (r *Repository) DeleteArticle(ctx context.Context, id string) error {
	if err := researchlog.ValidateName(id); err != nil {
		return r.storageError("delete", id, researchlog.ErrArticleNotFound)
	}

	err := os.Remove(r.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return r.storageError("delete", id, researchlog.ErrArticleNotFound)
	} else if err != nil {
		return r.storageError("delete", id, researchlog.IOFailure(err))
	}
	return nil
}
