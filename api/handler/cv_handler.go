package handler

import (
	"errors"
	"net/http"

	"cvstudio/api/middleware"
	"cvstudio/internal/dto"
	"cvstudio/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CVHandler struct {
	Service  *service.CVService
	Validate *validator.Validate
}

func NewCVHandler(svc *service.CVService, validate *validator.Validate) *CVHandler {
	return &CVHandler{Service: svc, Validate: validate}
}

func (h *CVHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.CreateCVRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	cv, err := h.Service.Create(c.Request().Context(), userID, service.CreateCVInput{
		Title:      req.Title,
		TemplateID: req.TemplateID,
		Content:    req.Content,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.CVResponseFromEntity(cv))
}

func (h *CVHandler) Templates(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Service.Templates())
}

func (h *CVHandler) List(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	cvs, err := h.Service.List(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CVResponsesFromEntities(cvs))
}

func (h *CVHandler) Get(c echo.Context) error {
	userID, cvID, err := h.requestIDs(c)
	if err != nil {
		return err
	}
	cv, err := h.Service.Get(c.Request().Context(), userID, cvID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CVResponseFromEntity(cv))
}

func (h *CVHandler) Update(c echo.Context) error {
	userID, cvID, err := h.requestIDs(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCVRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	cv, err := h.Service.Update(c.Request().Context(), userID, cvID, service.UpdateCVInput{
		Title:      req.Title,
		TemplateID: req.TemplateID,
		Content:    req.Content,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CVResponseFromEntity(cv))
}

func (h *CVHandler) UpdateSection(c echo.Context) error {
	userID, cvID, err := h.requestIDs(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCVSectionRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	cv, err := h.Service.UpdateSection(c.Request().Context(), userID, cvID, c.Param("section"), req.Content)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CVResponseFromEntity(cv))
}

// Export serves the full CV document as a downloadable attachment.
func (h *CVHandler) Export(c echo.Context) error {
	userID, cvID, err := h.requestIDs(c)
	if err != nil {
		return err
	}
	cv, err := h.Service.Get(c.Request().Context(), userID, cvID)
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="cv.json"`)
	return c.JSON(http.StatusOK, dto.CVResponseFromEntity(cv))
}

func (h *CVHandler) Delete(c echo.Context) error {
	userID, cvID, err := h.requestIDs(c)
	if err != nil {
		return err
	}
	if err := h.Service.Delete(c.Request().Context(), userID, cvID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CVHandler) requestIDs(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return uuid.Nil, uuid.Nil, writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	cvID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, writeError(c, http.StatusBadRequest, errors.New("invalid cv id"))
	}
	return userID, cvID, nil
}

func (h *CVHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
