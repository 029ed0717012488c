package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/profiles-service/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности по _id.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable — бэкенд недоступен или отверг учётные данные.
	ErrUnavailable = errors.New("unavailable")
)

// Storage описывает операции над профилями пользователей.
// Контракт одинаков для обоих бэкендов (MongoDB и HTTP Data API):
// фасад сервисного слоя обязан работать с любой реализацией без ветвлений.
type Storage interface {
	// SaveProfile записывает один документ с profile.ID в роли ключа (_id).
	// Поля ID/CreatedAt должны быть заполнены вызывающей стороной.
	// Возможные ошибки: ErrConflict (дубликат _id), ErrUnavailable.
	SaveProfile(ctx context.Context, profile models.Profile) (*models.Profile, error)

	// ListProfiles возвращает все документы коллекции в естественном
	// порядке итерации бэкенда (порядок вставки не гарантируется).
	// Результат материализуется полностью; пустая коллекция — пустой срез.
	ListProfiles(ctx context.Context) ([]models.Profile, error)

	// ProfileByID возвращает профиль по его строковому идентификатору.
	// Если запись не найдена — ErrNotFound.
	ProfileByID(ctx context.Context, id string) (*models.Profile, error)

	// DeleteProfile удаляет документ по идентификатору.
	// Идемпотентна: отсутствие записи — это (false, nil), а не ошибка.
	DeleteProfile(ctx context.Context, id string) (bool, error)

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
