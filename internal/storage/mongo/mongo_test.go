package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/profiles-service/internal/config"
	"github.com/pribylovaa/profiles-service/internal/models"
	"github.com/pribylovaa/profiles-service/internal/storage"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testTimeout — общий дедлайн на операции с БД в тестах.
const testTimeout = 10 * time.Second

// TestMain запускает MongoDB в контейнере один раз на весь пакет тестов.
// Адрес контейнера прокидывается в ENV MONGODB_URI, а каждая спецификация
// создаёт свою БД с уникальным именем (см. newTestConfig).
// Без GO_TEST_INTEGRATION интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
	}

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})

	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	_ = os.Setenv("MONGODB_URI", fmt.Sprintf("mongodb://%s:%s", host, port.Port()))

	code := m.Run()

	// Гасим контейнер *после* выполнения пакета тестов.
	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

// newTestConfig создаёт конфиг с отдельной тестовой БД.
func newTestConfig(t *testing.T) config.MongoConfig {
	t.Helper()

	baseURI := os.Getenv("MONGODB_URI")
	if baseURI == "" {
		baseURI = "mongodb://localhost:27017"
	}

	return config.MongoConfig{
		URI:      baseURI,
		Database: "profiles_test_" + uuid.New().String()[:8],
	}
}

// mustNewMongo создаёт подключение к тестовой БД и регистрирует очистку.
func mustNewMongo(t *testing.T) *Mongo {
	t.Helper()

	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("set GO_TEST_INTEGRATION=1 to run MongoDB integration tests")
	}

	cfg := newTestConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	m, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("cannot connect to MongoDB in container: %v (MONGODB_URI=%s)", err, cfg.URI)
	}

	// При завершении теста — подчистить БД и соединение.
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = m.db.Drop(ctx)
		_ = m.Close(ctx)
	})

	return m
}

// testProfile — быстрый хелпер для сборки профиля.
func testProfile(name, email string) models.Profile {
	age := int64(30)
	return models.Profile{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Age:       &age,
		City:      "New York",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// Save + ProfileByID: прочитанный профиль равен записанному по всем полям.
func TestMongo_SaveAndGetRoundTrip(t *testing.T) {
	m := mustNewMongo(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	want := testProfile("John Doe", "john@example.com")

	saved, err := m.SaveProfile(ctx, want)
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if saved.ID != want.ID {
		t.Fatalf("SaveProfile id: want %s, got %s", want.ID, saved.ID)
	}

	got, err := m.ProfileByID(ctx, want.ID)
	if err != nil {
		t.Fatalf("ProfileByID: %v", err)
	}

	if got.Name != want.Name || got.Email != want.Email || got.City != want.City {
		t.Fatalf("round trip mismatch: want %+v, got %+v", want, got)
	}
	if got.Age == nil || *got.Age != *want.Age {
		t.Fatalf("age mismatch: want %v, got %v", want.Age, got.Age)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("created_at mismatch: want %v, got %v", want.CreatedAt, got.CreatedAt)
	}
}

// Повторная вставка того же _id — storage.ErrConflict.
func TestMongo_SaveDuplicateID(t *testing.T) {
	m := mustNewMongo(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	p := testProfile("John", "john@example.com")

	if _, err := m.SaveProfile(ctx, p); err != nil {
		t.Fatalf("first SaveProfile: %v", err)
	}

	_, err := m.SaveProfile(ctx, p)
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

// ProfileByID по отсутствующему id — storage.ErrNotFound.
func TestMongo_GetMissing(t *testing.T) {
	m := mustNewMongo(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	_, err := m.ProfileByID(ctx, uuid.NewString())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

// ListProfiles: пустая коллекция — пустой срез; после вставок — ровно
// одна запись на каждый созданный id.
func TestMongo_ListProfiles(t *testing.T) {
	m := mustNewMongo(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	empty, err := m.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles (empty): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("want empty list, got %d items", len(empty))
	}

	first := testProfile("a", "a@a")
	second := testProfile("b", "b@b")
	for _, p := range []models.Profile{first, second} {
		if _, err := m.SaveProfile(ctx, p); err != nil {
			t.Fatalf("SaveProfile: %v", err)
		}
	}

	items, err := m.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 items, got %d", len(items))
	}

	seen := map[string]int{}
	for _, it := range items {
		seen[it.ID]++
	}
	if seen[first.ID] != 1 || seen[second.ID] != 1 {
		t.Fatalf("unexpected ids in list: %v", seen)
	}
}

// DeleteProfile идемпотентна: существующий id — true, отсутствующий — false без ошибки.
func TestMongo_DeleteProfile(t *testing.T) {
	m := mustNewMongo(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	p := testProfile("John", "john@example.com")
	if _, err := m.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	deleted, err := m.DeleteProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if !deleted {
		t.Fatal("want deleted=true for existing id")
	}

	// Повторное удаление — false, без ошибки.
	deleted, err = m.DeleteProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("DeleteProfile (repeat): %v", err)
	}
	if deleted {
		t.Fatal("want deleted=false for missing id")
	}

	// После удаления профиль не читается и не виден в списке.
	if _, err := m.ProfileByID(ctx, p.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}

	items, err := m.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	for _, it := range items {
		if it.ID == p.ID {
			t.Fatal("deleted profile still listed")
		}
	}
}
