// service содержит бизнес-логику profiles-service.
package service

import (
	"errors"

	"github.com/pribylovaa/profiles-service/internal/config"
	"github.com/pribylovaa/profiles-service/internal/storage"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable — бэкенд недоступен или отверг учётные данные.
	ErrUnavailable = errors.New("unavailable")
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInternal — внутренняя ошибка (стораж/БД/контекст/и т.д.).
	ErrInternal = errors.New("internal")
)

// Service — фасад над привязанным бэкендом.
// Ссылка на storage выбирается один раз при сборке процесса и не меняется:
// все четыре операции — чистые делегации без ветвлений по типу бэкенда.
type Service struct {
	storage storage.Storage
	cfg     config.Config
}

// New создает новый экземпляр Service.
func New(storage storage.Storage, cfg config.Config) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}
