package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/profiles-service/internal/errors"
	"github.com/pribylovaa/profiles-service/internal/models"
	"github.com/pribylovaa/profiles-service/internal/service"
)

// indexData — данные страницы списка профилей.
type indexData struct {
	Profiles []models.Profile
	DB       models.DatabaseInfo
}

// createFormData — данные формы создания; Error/значения нужны для
// повторного показа формы после ошибки валидации.
type createFormData struct {
	Error string
	Name  string
	Email string
	Age   string
	City  string
}

// IndexPage — GET /: таблица всех профилей.
func (h *Handlers) IndexPage(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.Profiles(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.renderPage(w, http.StatusOK, "index.html", indexData{
		Profiles: profiles,
		DB:       h.svc.DatabaseInfo(),
	})
}

// CreateUserPage — GET /create_user: пустая форма, фасад не вызывается.
func (h *Handlers) CreateUserPage(w http.ResponseWriter, _ *http.Request) {
	h.renderPage(w, http.StatusOK, "create_user.html", createFormData{})
}

// CreateUser — POST /create_user: разбор полей формы, создание профиля,
// редирект на список. Ошибка валидации показывается на самой форме (400),
// чтобы пользователь мог поправить ввод; прочие ошибки — JSON-конверт.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	form := createFormData{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
		Age:   strings.TrimSpace(r.PostFormValue("age")),
		City:  r.PostFormValue("city"),
	}

	in := service.CreateProfileInput{
		Name:  form.Name,
		Email: form.Email,
		City:  form.City,
	}

	if form.Age != "" {
		age, err := strconv.ParseInt(form.Age, 10, 64)
		if err != nil {
			form.Error = "age must be a number"
			h.renderPage(w, http.StatusBadRequest, "create_user.html", form)
			return
		}
		in.Age = &age
	}

	if _, err := h.svc.CreateProfile(r.Context(), in); err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			form.Error = "name and email are required"
			h.renderPage(w, http.StatusBadRequest, "create_user.html", form)
			return
		}

		apierrors.WriteError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteUser — POST /delete_user/{id}: удаление и редирект на список.
// Отсутствующий id не ошибка — удаление идемпотентно.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.svc.DeleteProfile(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
