package server

import (
	"encoding/json"
	"net/http"

	"github.com/rushteam/eventrec/core"
)

// EventDTO 是对外输出的活动结构，字段命名与前端约定一致。
type EventDTO struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
	Score    float64 `json:"score"`
	Source   string  `json:"source,omitempty"`
}

type eventsResponse struct {
	Success bool       `json:"success"`
	Events  []EventDTO `json:"events"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func toEventDTOs(recs []core.Recommendation) []EventDTO {
	out := make([]EventDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, EventDTO{
			ID:       rec.Event.ID,
			Title:    rec.Event.Title,
			Category: rec.Event.Category,
			Location: rec.Event.Location,
			Price:    rec.Event.Price,
			Score:    rec.Score,
			Source:   rec.Source,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, errorResponse{Error: errCode, Message: message})
}

// writeDomainError 把领域错误映射为 HTTP 状态码。
func writeDomainError(w http.ResponseWriter, err error) {
	if domainErr := core.GetDomainError(err); domainErr != nil {
		switch domainErr.Code {
		case core.ErrorCodeNotFound:
			writeError(w, http.StatusNotFound, "not_found", domainErr.Message)
			return
		case core.ErrorCodeInvalidInput:
			writeError(w, http.StatusBadRequest, "invalid_input", domainErr.Message)
			return
		case core.ErrorCodeNotFitted, core.ErrorCodeUnavailable:
			writeError(w, http.StatusServiceUnavailable, "not_ready", domainErr.Message)
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
}
