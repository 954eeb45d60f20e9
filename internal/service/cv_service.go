package service

import (
	"context"
	"encoding/json"
	"strings"

	"cvstudio/internal/entity"
	"cvstudio/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Section names a CV document is composed of.
var cvSections = map[string]struct{}{
	"personal_info": {},
	"statement":     {},
	"skills":        {},
	"experience":    {},
	"education":     {},
	"references":    {},
}

// Template describes one of the built-in CV layouts. Premium templates
// require an active subscription at render time on the frontend.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Premium bool   `json:"premium"`
}

var cvTemplates = []Template{
	{ID: "classic", Name: "Classic"},
	{ID: "modern", Name: "Modern"},
	{ID: "minimal", Name: "Minimal"},
	{ID: "professional", Name: "Professional", Premium: true},
	{ID: "creative", Name: "Creative", Premium: true},
}

type CVService struct {
	cvs    repository.CVRepository
	events repository.AnalyticsEventRepository
}

func NewCVService(cvs repository.CVRepository, events repository.AnalyticsEventRepository) *CVService {
	return &CVService{cvs: cvs, events: events}
}

type CreateCVInput struct {
	Title      string
	TemplateID string
	Content    json.RawMessage
}

type UpdateCVInput struct {
	Title      *string
	TemplateID *string
	Content    json.RawMessage
}

func (s *CVService) Create(ctx context.Context, userID uuid.UUID, input CreateCVInput) (*entity.CV, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	cv := &entity.CV{
		UserID:     userID,
		Title:      title,
		TemplateID: input.TemplateID,
	}
	if cv.TemplateID == "" {
		cv.TemplateID = "classic"
	}
	if len(input.Content) > 0 {
		cv.Content = datatypes.JSON(input.Content)
	}

	if err := s.cvs.Create(ctx, cv); err != nil {
		return nil, err
	}
	s.logEvent(ctx, userID, entity.EventCVCreated, cv.ID)
	return cv, nil
}

// Get enforces ownership: a CV belonging to another user is reported
// as forbidden, not as missing, so admins can tell the cases apart in
// the logs.
func (s *CVService) Get(ctx context.Context, userID uuid.UUID, cvID uuid.UUID) (*entity.CV, error) {
	cv, err := s.cvs.FindByID(ctx, cvID)
	if err != nil {
		return nil, err
	}
	if cv == nil {
		return nil, ErrCVNotFound
	}
	if cv.UserID != userID {
		return nil, ErrForbidden
	}
	return cv, nil
}

func (s *CVService) List(ctx context.Context, userID uuid.UUID) ([]entity.CV, error) {
	return s.cvs.ListByUser(ctx, userID)
}

func (s *CVService) Templates() []Template {
	return cvTemplates
}

func (s *CVService) Update(ctx context.Context, userID uuid.UUID, cvID uuid.UUID, input UpdateCVInput) (*entity.CV, error) {
	cv, err := s.Get(ctx, userID, cvID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrInvalidInput
		}
		cv.Title = title
	}
	if input.TemplateID != nil && *input.TemplateID != "" {
		cv.TemplateID = *input.TemplateID
	}
	if len(input.Content) > 0 {
		cv.Content = datatypes.JSON(input.Content)
	}

	if err := s.cvs.Update(ctx, cv); err != nil {
		return nil, err
	}
	return cv, nil
}

// UpdateSection replaces one named section of the content document and
// leaves the rest untouched.
func (s *CVService) UpdateSection(ctx context.Context, userID uuid.UUID, cvID uuid.UUID, section string, payload json.RawMessage) (*entity.CV, error) {
	if _, ok := cvSections[section]; !ok {
		return nil, ErrUnknownSection
	}
	if len(payload) == 0 {
		return nil, ErrInvalidInput
	}

	cv, err := s.Get(ctx, userID, cvID)
	if err != nil {
		return nil, err
	}

	content := map[string]json.RawMessage{}
	if len(cv.Content) > 0 {
		if err := json.Unmarshal(cv.Content, &content); err != nil {
			return nil, err
		}
	}
	content[section] = payload

	merged, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	cv.Content = datatypes.JSON(merged)

	if err := s.cvs.Update(ctx, cv); err != nil {
		return nil, err
	}
	return cv, nil
}

func (s *CVService) Delete(ctx context.Context, userID uuid.UUID, cvID uuid.UUID) error {
	cv, err := s.Get(ctx, userID, cvID)
	if err != nil {
		return err
	}
	if err := s.cvs.Delete(ctx, cv.ID); err != nil {
		return err
	}
	s.logEvent(ctx, userID, entity.EventCVDeleted, cv.ID)
	return nil
}

func (s *CVService) logEvent(ctx context.Context, userID uuid.UUID, action entity.EventAction, cvID uuid.UUID) {
	if s.events == nil {
		return
	}
	metadata, _ := json.Marshal(map[string]any{"cv_id": cvID.String()})
	_ = s.events.Log(ctx, &entity.AnalyticsEvent{
		UserID:   &userID,
		Action:   action,
		Metadata: datatypes.JSON(metadata),
	})
}
