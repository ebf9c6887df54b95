// http содержит REST-слой auth-сервиса: роутер, хендлеры и DTO.
// Здесь выполняется только маппинг данных и ошибок доменного слоя (service)
// в HTTP. Вся валидация и бизнес-логика находятся в пакете service.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/wanderlist-app/auth-service/internal/service"
)

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	svc *service.Service
}

// NewHandlers создаёт набор хендлеров поверх сервисного слоя.
func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
