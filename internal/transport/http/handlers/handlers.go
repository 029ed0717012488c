package handlers

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/pribylovaa/profiles-service/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handlers агрегирует зависимости HTTP-слоя: фасад сервиса и шаблоны страниц.
type Handlers struct {
	svc   *service.Service
	pages *template.Template
}

func New(svc *service.Service) *Handlers {
	return &Handlers{
		svc:   svc,
		pages: template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// renderPage — единый ответ HTML-страницей.
func (h *Handlers) renderPage(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = h.pages.ExecuteTemplate(w, name, data)
}
