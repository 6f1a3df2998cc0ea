package handlers

import (
	"SocialSphere/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodySize — ограничение тела запроса (JSON и multipart с картинкой).
const maxBodySize = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeServiceError маппит ошибки сервисов в HTTP-ответы.
func writeServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error, forbiddenMsg string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, forbiddenMsg)
	default:
		logger.Errorw(op+": service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON читает JSON-тело; при ошибке сам пишет 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(dst); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error")
		return false
	}
	return true
}

// idParam возвращает положительный id из пути; иначе 404.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return 0, false
	}
	return id, true
}

// pageParam читает ?page=N (по умолчанию 1).
func pageParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		writeDetail(w, http.StatusNotFound, "Invalid page.")
		return 0, false
	}
	return page, true
}

// baseURL — схема и хост, с которыми пришёл запрос.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}

// pageLink строит абсолютный URL страницы того же списка.
func pageLink(r *http.Request, page int) *string {
	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	link := baseURL(r) + r.URL.Path
	if enc := q.Encode(); enc != "" {
		link += "?" + enc
	}
	return &link
}

type pageDTO[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func newPage[T any](r *http.Request, page int, total int64, results []T) pageDTO[T] {
	p := pageDTO[T]{Count: total, Results: results}
	if int64(page*service.PageSize) < total {
		p.Next = pageLink(r, page+1)
	}
	if page > 1 {
		p.Previous = pageLink(r, page-1)
	}
	return p
}
