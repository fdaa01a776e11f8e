// Package researchlog provides the article and asset store behind the
// research-log publishing tool.
//
// It exposes a single Service interface that saves, lists, reads and
// deletes articles, and stores and serves uploaded assets. Articles are
// persisted through an ArticleRepository (filesystem or memory, under
// repo/) and assets through a BlobStore (filesystem, memory or S3, under
// storage/).
//
// Cascade Delete
//
// Deleting an article scans its rich-text body for embedded asset
// references (see package refs) and removes each referenced asset on a
// best-effort basis before removing the article document. The scan is
// textual: an asset embedded by more than one article is removed when any
// of them is deleted.
package researchlog
