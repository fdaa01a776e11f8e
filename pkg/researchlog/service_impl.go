package researchlog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strconv"
	"time"

	"github.com/tendant/researchlog/pkg/researchlog/refs"
)

// service implements the Service interface
type service struct {
	articles  ArticleRepository
	assets    BlobStore
	eventSink EventSink
	logger    *slog.Logger
	now       func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithArticleRepository sets the repository articles are stored in
func WithArticleRepository(repo ArticleRepository) Option {
	return func(s *service) {
		s.articles = repo
	}
}

// WithBlobStore sets the store assets are written to
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.assets = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for generated ids, dates and
// asset names.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		eventSink: NewNoopEventSink(),
		now:       time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.articles == nil {
		return nil, errors.New("article repository is required")
	}
	if s.assets == nil {
		return nil, errors.New("blob store is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}

	return s, nil
}

// Article operations

func (s *service) ListArticles(ctx context.Context) ([]ArticleSummary, error) {
	articles, err := s.articles.ListArticles(ctx)
	if err != nil {
		return nil, &ArticleError{Op: "list", Err: err}
	}

	summaries := make([]ArticleSummary, 0, len(articles))
	for _, a := range articles {
		summaries = append(summaries, Summarize(a))
	}
	return summaries, nil
}

func (s *service) GetArticle(ctx context.Context, id string) (*Article, error) {
	article, err := s.articles.GetArticle(ctx, id)
	if err != nil {
		return nil, &ArticleError{ArticleID: id, Op: "get", Err: err}
	}
	return article, nil
}

func (s *service) SaveArticle(ctx context.Context, req SaveArticleRequest) (*Article, error) {
	now := s.now()
	article := &Article{
		ID:      req.ID,
		Title:   req.Title,
		Content: req.Content,
		Date:    req.Date,
	}
	if article.ID == "" {
		article.ID = strconv.FormatInt(now.UnixMilli(), 10)
	}
	if article.Date == "" {
		article.Date = FormatDate(now)
	}

	if err := s.articles.PutArticle(ctx, article); err != nil {
		return nil, &ArticleError{ArticleID: article.ID, Op: "save", Err: err}
	}

	if err := s.eventSink.ArticleSaved(ctx, article); err != nil {
		s.logger.WarnContext(ctx, "Event sink failed", "event", "article_saved", "error", err)
	}

	return article, nil
}

// DeleteArticle removes an article together with the assets its body
// references. Only a missing article stops the operation before anything is
// removed; asset removal failures are recorded in the report and do not
// prevent the article document from being deleted.
func (s *service) DeleteArticle(ctx context.Context, id string) (*DeleteReport, error) {
	article, err := s.articles.GetArticle(ctx, id)
	if err != nil {
		return nil, &ArticleError{ArticleID: id, Op: "delete", Err: err}
	}

	report := &DeleteReport{ArticleID: id}
	for name := range refs.Unique(s.extract(ctx, article)) {
		if err := s.assets.Remove(ctx, name); err != nil {
			report.Failed = append(report.Failed, AssetFailure{FileName: name, Err: err})
			s.logger.WarnContext(ctx, "Failed to remove referenced asset",
				"article_id", id, "file_name", name, "error", err)
			if err := s.eventSink.AssetRemoveFailed(ctx, name, err); err != nil {
				s.logger.WarnContext(ctx, "Event sink failed", "event", "asset_remove_failed", "error", err)
			}
			continue
		}
		report.Removed = append(report.Removed, name)
		if err := s.eventSink.AssetRemoved(ctx, name); err != nil {
			s.logger.WarnContext(ctx, "Event sink failed", "event", "asset_removed", "error", err)
		}
	}

	if err := s.articles.DeleteArticle(ctx, id); err != nil {
		return report, &ArticleError{ArticleID: id, Op: "delete", Err: err}
	}

	if err := s.eventSink.ArticleDeleted(ctx, report); err != nil {
		s.logger.WarnContext(ctx, "Event sink failed", "event", "article_deleted", "error", err)
	}

	return report, nil
}

func (s *service) ArticleReferences(ctx context.Context, id string) ([]string, error) {
	article, err := s.articles.GetArticle(ctx, id)
	if err != nil {
		return nil, &ArticleError{ArticleID: id, Op: "references", Err: err}
	}
	return refs.Collect(refs.Unique(s.extract(ctx, article))), nil
}

func (s *service) extract(ctx context.Context, article *Article) iter.Seq[string] {
	return refs.Extract(article.Content, refs.OnDecodeError(func(token string, err error) {
		s.logger.WarnContext(ctx, "Skipping undecodable asset reference",
			"article_id", article.ID, "token", token, "error", err)
	}))
}

// Asset operations

func (s *service) StoreAsset(ctx context.Context, originalFilename string, reader io.Reader) (*StoredAsset, error) {
	if originalFilename == "" || reader == nil {
		return nil, &AssetError{Op: "store", Err: ErrNoFile}
	}

	// An upload with no bytes counts as no file.
	br := bufio.NewReader(reader)
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &AssetError{FileName: originalFilename, Op: "store", Err: ErrNoFile}
		}
		return nil, &AssetError{FileName: originalFilename, Op: "store", Err: IOFailure(err)}
	}

	fileName := fmt.Sprintf("%d-%s", s.now().UnixMilli(), originalFilename)
	if err := s.assets.Put(ctx, fileName, br); err != nil {
		return nil, &AssetError{FileName: fileName, Op: "store", Err: err}
	}

	asset := &StoredAsset{
		FileName: fileName,
		URL:      refs.AssetURL(fileName),
	}

	if err := s.eventSink.AssetStored(ctx, asset); err != nil {
		s.logger.WarnContext(ctx, "Event sink failed", "event", "asset_stored", "error", err)
	}

	return asset, nil
}

func (s *service) ReadAsset(ctx context.Context, fileName string) (*Asset, error) {
	rc, err := s.assets.Get(ctx, fileName)
	if err != nil {
		return nil, &AssetError{FileName: fileName, Op: "read", Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &AssetError{FileName: fileName, Op: "read", Err: IOFailure(err)}
	}

	return &Asset{
		FileName:    fileName,
		ContentType: ContentTypeFor(fileName),
		Data:        data,
	}, nil
}
