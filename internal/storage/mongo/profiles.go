package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/profiles-service/internal/models"
	"github.com/pribylovaa/profiles-service/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// profileDoc — схема документа в коллекции users.
// created_at хранится строкой RFC 3339, чтобы форма документа совпадала
// с документами HTTP Data API бит в бит.
type profileDoc struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	Email     string `bson:"email"`
	Age       *int64 `bson:"age,omitempty"`
	City      string `bson:"city,omitempty"`
	CreatedAt string `bson:"created_at"`
}

func toDoc(p models.Profile) profileDoc {
	return profileDoc{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Age:       p.Age,
		City:      p.City,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func fromDoc(d profileDoc) models.Profile {
	// Битую метку времени не считаем фатальной: отдадим нулевое время.
	created, _ := time.Parse(time.RFC3339, d.CreatedAt)

	return models.Profile{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Age:       d.Age,
		City:      d.City,
		CreatedAt: created.UTC(),
	}
}

// SaveProfile вставляет один документ с _id = profile.ID.
// Дубликат ключа — storage.ErrConflict.
func (m *Mongo) SaveProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	const op = "storage/mongo/SaveProfile"

	if _, err := m.users.InsertOne(ctx, toDoc(profile)); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	return &profile, nil
}

// ListProfiles возвращает все документы коллекции в естественном порядке.
func (m *Mongo) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	const op = "storage/mongo/ListProfiles"

	cur, err := m.users.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := []models.Profile{}
	for cur.Next(ctx) {
		var doc profileDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, fromDoc(doc))
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// ProfileByID возвращает профиль по идентификатору.
// Если запись не найдена — storage.ErrNotFound.
func (m *Mongo) ProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	const op = "storage/mongo/ProfileByID"

	var doc profileDoc
	if err := m.users.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := fromDoc(doc)
	return &out, nil
}

// DeleteProfile удаляет документ по идентификатору.
// Отсутствие записи — (false, nil): операция идемпотентна.
func (m *Mongo) DeleteProfile(ctx context.Context, id string) (bool, error) {
	const op = "storage/mongo/DeleteProfile"

	res, err := m.users.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount > 0, nil
}
