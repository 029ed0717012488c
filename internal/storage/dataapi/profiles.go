package dataapi

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/profiles-service/internal/models"
	"github.com/pribylovaa/profiles-service/internal/storage"
)

// profileDoc — форма документа в коллекции users Data API.
// Совпадает полями с документом mongo-адаптера: created_at — строка RFC 3339.
type profileDoc struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Age       *int64 `json:"age,omitempty"`
	City      string `json:"city,omitempty"`
	CreatedAt string `json:"created_at"`
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

// SaveProfile выполняет insertOne с _id = profile.ID.
// DOCUMENT_ALREADY_EXISTS — storage.ErrConflict.
func (c *Client) SaveProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	const op = "storage/dataapi/SaveProfile"

	resp, err := c.do(ctx, c.collectionPath(), command{
		"insertOne": map[string]any{"document": toDoc(profile)},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if firstErrorCode(resp) == errorCodeAlreadyExists {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}

	if err := envelopeError(op, resp); err != nil {
		return nil, err
	}

	return &profile, nil
}

// ListProfiles выполняет find без фильтра и собирает все страницы ответа.
func (c *Client) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	const op = "storage/dataapi/ListProfiles"

	items := []models.Profile{}
	pageState := ""

	for {
		find := map[string]any{}
		if pageState != "" {
			find["options"] = map[string]any{"pageState": pageState}
		}

		resp, err := c.do(ctx, c.collectionPath(), command{"find": find})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if err := envelopeError(op, resp); err != nil {
			return nil, err
		}

		for _, doc := range resp.Data.Documents {
			items = append(items, fromDoc(doc))
		}

		pageState = resp.Data.NextPageState
		if pageState == "" {
			return items, nil
		}
	}
}

// ProfileByID выполняет findOne по фильтру _id.
// Отсутствующий документ (data.document == null) — storage.ErrNotFound.
func (c *Client) ProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	const op = "storage/dataapi/ProfileByID"

	resp, err := c.do(ctx, c.collectionPath(), command{
		"findOne": map[string]any{"filter": map[string]any{"_id": id}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := envelopeError(op, resp); err != nil {
		return nil, err
	}

	if resp.Data.Document == nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	out := fromDoc(*resp.Data.Document)
	return &out, nil
}

// DeleteProfile выполняет deleteOne по фильтру _id.
// Возвращает true, если документ действительно был удалён.
func (c *Client) DeleteProfile(ctx context.Context, id string) (bool, error) {
	const op = "storage/dataapi/DeleteProfile"

	resp, err := c.do(ctx, c.collectionPath(), command{
		"deleteOne": map[string]any{"filter": map[string]any{"_id": id}},
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := envelopeError(op, resp); err != nil {
		return false, err
	}

	return resp.Status.DeletedCount > 0, nil
}
