package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/profiles-service/internal/models"
	"github.com/pribylovaa/profiles-service/internal/storage"
	"github.com/pribylovaa/profiles-service/pkg/log"
)

// Входные структуры сервисного слоя.

// CreateProfileInput — создание профиля.
// Name и Email обязательны; Age/City опциональны.
// ID и CreatedAt не принимаются снаружи — их генерирует сервис.
type CreateProfileInput struct {
	Name  string
	Email string
	Age   *int64
	City  string
}

// CreateProfile — бизнес-операция создания профиля.
//
// Валидация:
//   - Name и Email нормализуются (TrimSpace) и не должны быть пустыми;
//     при нарушении — ErrInvalidArgument до какого-либо обращения к хранилищу.
//
// Поведение:
//   - ID — новый UUID v4; CreatedAt — UTC с точностью до секунды
//     (стабильно сериализуется в RFC 3339 в обоих бэкендах);
//   - ErrConflict — дубликат сгенерированного _id;
//   - ErrUnavailable — бэкенд недоступен;
//   - ErrInternal — прочие ошибки стораджа/БД/контекста.
func (s *Service) CreateProfile(ctx context.Context, in CreateProfileInput) (*models.Profile, error) {
	const op = "service/profiles/CreateProfile"

	lg := log.From(ctx).With("op", op)

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		lg.Warn("invalid argument: empty name")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		lg.Warn("invalid argument: empty email")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	profile := models.Profile{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Age:       in.Age,
		City:      strings.TrimSpace(in.City),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	result, err := s.storage.SaveProfile(ctx, profile)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			lg.Warn("conflict", "id", profile.ID)
			return nil, fmt.Errorf("%s: %w", op, ErrConflict)
		case errors.Is(err, storage.ErrUnavailable):
			lg.Error("storage unavailable on SaveProfile", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
		default:
			lg.Error("storage error on SaveProfile", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// Profiles — все профили в естественном порядке бэкенда (возможно, пусто).
//
// Поведение/ошибки:
//   - ErrUnavailable — бэкенд недоступен;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) Profiles(ctx context.Context) ([]models.Profile, error) {
	const op = "service/profiles/Profiles"

	lg := log.From(ctx).With("op", op)

	items, err := s.storage.ListProfiles(ctx)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnavailable):
			lg.Error("storage unavailable on ListProfiles", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
		default:
			lg.Error("storage error on ListProfiles", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return items, nil
}

// ProfileByID — получить профиль по ID.
//
// Валидация:
//   - id не должен быть пустым.
//
// Поведение/ошибки:
//   - ErrNotFound — если профиль не найден;
//   - ErrUnavailable — бэкенд недоступен;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) ProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	const op = "service/profiles/ProfileByID"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.storage.ProfileByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("profile not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrUnavailable):
			lg.Error("storage unavailable on ProfileByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
		default:
			lg.Error("storage error on ProfileByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// DeleteProfile — удаление профиля по ID.
//
// Валидация:
//   - id не должен быть пустым.
//
// Поведение:
//   - идемпотентна: отсутствие записи — (false, nil), без ошибки;
//   - ErrUnavailable — бэкенд недоступен;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) DeleteProfile(ctx context.Context, id string) (bool, error) {
	const op = "service/profiles/DeleteProfile"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return false, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	deleted, err := s.storage.DeleteProfile(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnavailable):
			lg.Error("storage unavailable on DeleteProfile", "err", err)
			return false, fmt.Errorf("%s: %w", op, ErrUnavailable)
		default:
			lg.Error("storage error on DeleteProfile", "err", err)
			return false, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return deleted, nil
}

// DatabaseInfo — тип привязанного бэкенда для /api/db_info.
// Привязка неизменна в течение жизни процесса, поэтому ответ статичен.
func (s *Service) DatabaseInfo() models.DatabaseInfo {
	return models.DatabaseInfo{
		Type:   s.cfg.DB.Type,
		Status: "connected",
	}
}
