package mongo

import (
	"context"
	"fmt"

	"github.com/pribylovaa/profiles-service/internal/config"
	"github.com/pribylovaa/profiles-service/internal/storage"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const usersCollection = "users"

// Mongo — адаптер документного бэкенда поверх официального драйвера.
// Владеет соединением и хендлом коллекции; создаётся один раз на старте.
type Mongo struct {
	client *mongodriver.Client
	db     *mongodriver.Database
	users  *mongodriver.Collection
}

// New подключается к MongoDB и проверяет соединение пингом.
// Недоступный URI или отвергнутые учётные данные — storage.ErrUnavailable.
func New(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo: empty cfg.URI")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w: %v", storage.ErrUnavailable, err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w: %v", storage.ErrUnavailable, err)
	}

	db := cli.Database(cfg.Database)

	return &Mongo{
		client: cli,
		db:     db,
		users:  db.Collection(usersCollection),
	}, nil
}

// Close разрывает соединение с кластером.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
