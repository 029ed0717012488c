// dataapi реализует адаптер хранилища поверх HTTP Data API (HCD).
// Протокол — JSON-команды (insertOne/find/findOne/deleteOne), отправляемые
// POST-запросами на {endpoint}/v1/{keyspace}/{collection}; аутентификация —
// заголовок Token, получаемый из пары логин/пароль.
package dataapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/profiles-service/internal/config"
	"github.com/pribylovaa/profiles-service/internal/storage"
)

const usersCollection = "users"

// errorCodeAlreadyExists — код Data API для дубликата _id.
const errorCodeAlreadyExists = "DOCUMENT_ALREADY_EXISTS"

// Client — адаптер Data API-бэкенда.
// Владеет http-клиентом, адресом и токеном; создаётся один раз на старте.
type Client struct {
	http     *http.Client
	endpoint string
	keyspace string
	token    string
}

// command — JSON-команда Data API; ключ верхнего уровня — имя операции.
type command map[string]any

// apiError — элемент массива errors в ответе Data API.
type apiError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

// apiResponse — конверт ответа Data API.
type apiResponse struct {
	Status struct {
		InsertedIDs  []string `json:"insertedIds"`
		DeletedCount int64    `json:"deletedCount"`
	} `json:"status"`
	Data struct {
		Document      *profileDoc  `json:"document"`
		Documents     []profileDoc `json:"documents"`
		NextPageState string       `json:"nextPageState"`
	} `json:"data"`
	Errors []apiError `json:"errors"`
}

// hcdToken собирает токен аутентификации из пары логин/пароль:
// "Cassandra:" + base64(username) + ":" + base64(password).
func hcdToken(username, password string) string {
	return "Cassandra:" +
		base64.StdEncoding.EncodeToString([]byte(username)) + ":" +
		base64.StdEncoding.EncodeToString([]byte(password))
}

// New создаёт клиента и best-effort готовит keyspace и коллекцию users —
// существующие объекты не считаются ошибкой. Транспортный сбой или
// отвергнутые учётные данные на этом этапе — storage.ErrUnavailable.
func New(ctx context.Context, cfg config.HCDConfig) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("dataapi: empty cfg.Endpoint")
	}

	c := &Client{
		http:     &http.Client{Timeout: 30 * time.Second},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		keyspace: cfg.Keyspace,
		token:    hcdToken(cfg.Username, cfg.Password),
	}

	// Keyspace может уже существовать — ответные errors игнорируем,
	// транспортные ошибки и отказ в доступе — нет.
	if _, err := c.do(ctx, "/v1", command{
		"createKeyspace": map[string]any{"name": cfg.Keyspace},
	}); err != nil {
		return nil, fmt.Errorf("dataapi create keyspace: %w", err)
	}

	if _, err := c.do(ctx, "/v1/"+cfg.Keyspace, command{
		"createCollection": map[string]any{"name": usersCollection},
	}); err != nil {
		return nil, fmt.Errorf("dataapi create collection: %w", err)
	}

	return c, nil
}

// Close освобождает соединения http-клиента.
func (c *Client) Close(_ context.Context) error {
	c.http.CloseIdleConnections()
	return nil
}

// do отправляет одну JSON-команду и декодирует конверт ответа.
// Сюда стекается весь транспортный маппинг ошибок:
//   - сетевой сбой -> storage.ErrUnavailable;
//   - 401/403 -> storage.ErrUnavailable (кривой токен);
//   - прочие не-2xx -> обычная ошибка с кодом статуса.
//
// Ошибки уровня команды (envelope.Errors) оставляются вызывающему.
func (c *Client) do(ctx context.Context, path string, cmd command) (*apiResponse, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("marshal command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: http %d", storage.ErrUnavailable, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &out, nil
}

// collectionPath — путь команд коллекции users.
func (c *Client) collectionPath() string {
	return "/v1/" + c.keyspace + "/" + usersCollection
}

// firstErrorCode возвращает код первой ошибки конверта (или "").
func firstErrorCode(resp *apiResponse) string {
	if len(resp.Errors) == 0 {
		return ""
	}

	return resp.Errors[0].ErrorCode
}

// envelopeError сворачивает errors конверта в одну ошибку Go.
func envelopeError(op string, resp *apiResponse) error {
	if len(resp.Errors) == 0 {
		return nil
	}

	first := resp.Errors[0]
	return fmt.Errorf("%s: data api error %s: %s", op, first.ErrorCode, first.Message)
}
