// models содержит доменные сущности profiles-сервиса.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"
)

// Profile — внутренняя доменная модель профиля пользователя.
// Важно:
//   - ID — строковый UUID v4, генерируется сервисным слоем при создании
//     и служит ключом документа (_id) в обоих бэкендах;
//   - Name/Email — обязательные; Email используется только для отображения,
//     уникальность намеренно не проверяется;
//   - Age/City — опциональные (Age == nil означает «не указан»);
//   - CreatedAt — UTC, выставляется один раз при создании; в документе
//     хранится строкой RFC 3339, одинаково для обоих бэкендов.
// Профиль неизменяем после создания: операций обновления нет, только удаление.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       *int64    `json:"age,omitempty"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DatabaseInfo — сведения о привязанном бэкенде для /api/db_info.
type DatabaseInfo struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}
