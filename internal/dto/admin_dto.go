package dto

import (
	"encoding/json"
	"time"

	"cvstudio/internal/entity"
)

type AnalyticsEventResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id,omitempty"`
	Action    string          `json:"action"`
	IPAddress string          `json:"ip_address,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func AnalyticsEventResponsesFromEntities(events []entity.AnalyticsEvent) []AnalyticsEventResponse {
	responses := make([]AnalyticsEventResponse, 0, len(events))
	for i := range events {
		event := &events[i]
		response := AnalyticsEventResponse{
			ID:        event.ID.String(),
			Action:    string(event.Action),
			Metadata:  json.RawMessage(event.Metadata),
			CreatedAt: event.CreatedAt,
		}
		if event.UserID != nil {
			response.UserID = event.UserID.String()
		}
		if event.IPAddress != nil {
			response.IPAddress = *event.IPAddress
		}
		responses = append(responses, response)
	}
	return responses
}
