package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/researchlog/pkg/researchlog"
)

// ArticleHandler serves the article endpoints.
type ArticleHandler struct {
	service researchlog.Service
}

func NewArticleHandler(service researchlog.Service) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// Routes returns the router for article endpoints
func (h *ArticleHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListArticles)
	r.Post("/", h.SaveArticle)
	r.Get("/{id}", h.GetArticle)
	r.Delete("/{id}", h.DeleteArticle)
	return r
}

// SaveArticleResponse is returned after an article is saved
type SaveArticleResponse struct {
	Success bool                 `json:"success"`
	Article *researchlog.Article `json:"article"`
}

// articleID accepts an id sent either as a JSON string or as a JSON number.
// A zero number counts as no id.
type articleID string

func (id *articleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = articleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("article id must be a string or a number: %w", err)
	}
	if n == "0" {
		*id = ""
		return nil
	}
	*id = articleID(n.String())
	return nil
}

type saveArticleBody struct {
	ID      articleID `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    string    `json:"date"`
}

// ListArticles returns the summaries of every stored article in store order
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListArticles(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "Article not found", "Failed to list articles")
		return
	}
	render.JSON(w, r, summaries)
}

func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	article, err := h.service.GetArticle(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "Article not found", "Failed to read article")
		return
	}
	render.JSON(w, r, article)
}

// SaveArticle creates or replaces an article. A missing id or date is
// generated by the service.
func (h *ArticleHandler) SaveArticle(w http.ResponseWriter, r *http.Request) {
	var body saveArticleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Warn("Failed to decode request", "error", err)
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	req := researchlog.SaveArticleRequest{
		ID:      string(body.ID),
		Title:   body.Title,
		Content: body.Content,
		Date:    body.Date,
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, r, http.StatusBadRequest, validationMessage(researchlog.ErrMissingTitle))
		return
	}

	article, err := h.service.SaveArticle(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err, "Article not found", "Failed to save article")
		return
	}

	render.JSON(w, r, SaveArticleResponse{Success: true, Article: article})
}

// DeleteArticle deletes an article and the assets it references
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := h.service.DeleteArticle(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "Article not found", "Failed to delete article")
		return
	}

	if len(report.Failed) > 0 {
		slog.Warn("Article deleted with leftover assets",
			"article_id", id, "failed", len(report.Failed), "removed", len(report.Removed))
	}

	render.JSON(w, r, SuccessResponse{Success: true})
}
