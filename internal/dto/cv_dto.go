package dto

import (
	"encoding/json"
	"time"

	"cvstudio/internal/entity"
)

type CreateCVRequest struct {
	Title      string          `json:"title" validate:"required,max=255"`
	TemplateID string          `json:"template_id" validate:"omitempty,max=100"`
	Content    json.RawMessage `json:"content"`
}

type UpdateCVRequest struct {
	Title      *string         `json:"title" validate:"omitempty,max=255"`
	TemplateID *string         `json:"template_id" validate:"omitempty,max=100"`
	Content    json.RawMessage `json:"content"`
}

type UpdateCVSectionRequest struct {
	Content json.RawMessage `json:"content" validate:"required"`
}

type CVResponse struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	TemplateID string          `json:"template_id"`
	Content    json.RawMessage `json:"content,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func CVResponseFromEntity(cv *entity.CV) CVResponse {
	return CVResponse{
		ID:         cv.ID.String(),
		Title:      cv.Title,
		TemplateID: cv.TemplateID,
		Content:    json.RawMessage(cv.Content),
		CreatedAt:  cv.CreatedAt,
		UpdatedAt:  cv.UpdatedAt,
	}
}

func CVResponsesFromEntities(cvs []entity.CV) []CVResponse {
	responses := make([]CVResponse, 0, len(cvs))
	for i := range cvs {
		responses = append(responses, CVResponseFromEntity(&cvs[i]))
	}
	return responses
}
