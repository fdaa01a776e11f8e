package researchlog

import (
	"context"
	"errors"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) ArticleSaved(ctx context.Context, article *Article) error { return nil }
func (n *NoopEventSink) ArticleDeleted(ctx context.Context, report *DeleteReport) error { return nil }
func (n *NoopEventSink) AssetStored(ctx context.Context, asset *StoredAsset) error { return nil }
func (n *NoopEventSink) AssetRemoved(ctx context.Context, fileName string) error { return nil }
func (n *NoopEventSink) AssetRemoveFailed(ctx context.Context, fileName string, err error) error {
	return nil
}

// LogEventSink writes every event to a structured logger.
type LogEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink creates an event sink logging through logger. A nil logger
// uses slog.Default().
func NewLogEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEventSink{logger: logger}
}

func (l *LogEventSink) ArticleSaved(ctx context.Context, article *Article) error {
	l.logger.InfoContext(ctx, "Article saved", "article_id", article.ID, "title", article.Title)
	return nil
}

func (l *LogEventSink) ArticleDeleted(ctx context.Context, report *DeleteReport) error {
	l.logger.InfoContext(ctx, "Article deleted",
		"article_id", report.ArticleID,
		"assets_removed", len(report.Removed),
		"assets_failed", len(report.Failed))
	return nil
}

func (l *LogEventSink) AssetStored(ctx context.Context, asset *StoredAsset) error {
	l.logger.InfoContext(ctx, "Asset stored", "file_name", asset.FileName)
	return nil
}

func (l *LogEventSink) AssetRemoved(ctx context.Context, fileName string) error {
	l.logger.DebugContext(ctx, "Asset removed", "file_name", fileName)
	return nil
}

func (l *LogEventSink) AssetRemoveFailed(ctx context.Context, fileName string, err error) error {
	l.logger.WarnContext(ctx, "Asset removal failed", "file_name", fileName, "error", err)
	return nil
}

// MultiEventSink fans events out to several sinks. Every sink is called even
// when an earlier one fails; the failures are joined.
type MultiEventSink []EventSink

// NewMultiEventSink combines sinks, skipping nil entries.
func NewMultiEventSink(sinks ...EventSink) EventSink {
	var m MultiEventSink
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m MultiEventSink) each(fn func(EventSink) error) error {
	var errs []error
	for _, s := range m {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiEventSink) ArticleSaved(ctx context.Context, article *Article) error {
	return m.each(func(s EventSink) error { return s.ArticleSaved(ctx, article) })
}

func (m MultiEventSink) ArticleDeleted(ctx context.Context, report *DeleteReport) error {
	return m.each(func(s EventSink) error { return s.ArticleDeleted(ctx, report) })
}

func (m MultiEventSink) AssetStored(ctx context.Context, asset *StoredAsset) error {
	return m.each(func(s EventSink) error { return s.AssetStored(ctx, asset) })
}

func (m MultiEventSink) AssetRemoved(ctx context.Context, fileName string) error {
	return m.each(func(s EventSink) error { return s.AssetRemoved(ctx, fileName) })
}

func (m MultiEventSink) AssetRemoveFailed(ctx context.Context, fileName string, err error) error {
	return m.each(func(s EventSink) error { return s.AssetRemoveFailed(ctx, fileName, err) })
}
