package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/ports"
)

type CollaborationHandler struct {
	collaborations ports.CollaborationStore
}

func NewCollaborationHandler(collaborations ports.CollaborationStore) *CollaborationHandler {
	return &CollaborationHandler{collaborations: collaborations}
}

// Create records a membership of a user in a project.
//
// @Summary      Create a collaboration
// @Tags         collaborations
// @Accept       json
// @Produce      json
// @Param        body  body      createCollaborationRequest  true  "Collaboration"
// @Success      201   {object}  domain.Collaboration
// @Failure      422   {object}  map[string]string
// @Router       /v1/collaborations [post]
func (h *CollaborationHandler) Create(c echo.Context) error {
	var req createCollaborationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	collab, err := h.collaborations.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, collab)
}

func (h *CollaborationHandler) Get(c echo.Context) error {
	collab, err := h.collaborations.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, collab)
}

func (h *CollaborationHandler) Update(c echo.Context) error {
	var patch domain.CollaborationPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	collab, err := h.collaborations.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, collab)
}

// ListByProject serves GET /v1/projects/:id/collaborations.
func (h *CollaborationHandler) ListByProject(c echo.Context) error {
	collabs, err := h.collaborations.ListByProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(collabs))
}

// ListByUser serves GET /v1/users/:id/collaborations.
func (h *CollaborationHandler) ListByUser(c echo.Context) error {
	collabs, err := h.collaborations.ListByUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(collabs))
}
