package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/ports"
)

type RequestHandler struct {
	service  ports.RequestService
	requests ports.RequestStore
}

func NewRequestHandler(service ports.RequestService, requests ports.RequestStore) *RequestHandler {
	return &RequestHandler{service: service, requests: requests}
}

// Send creates a pending collaboration request between two existing users.
//
// @Summary      Send a collaboration request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        body  body      sendRequestRequest  true  "Request"
// @Success      201   {object}  domain.CollaborationRequest
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/requests [post]
func (h *RequestHandler) Send(c echo.Context) error {
	var req sendRequestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	r, err := h.service.Send(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *RequestHandler) Get(c echo.Context) error {
	r, err := h.requests.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Respond accepts or rejects a pending request. Only the status can change;
// resolved requests answer 409.
//
// @Summary      Respond to a collaboration request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "Request ID"
// @Param        body  body      domain.RequestStatusPatch  true  "Target status"
// @Success      200   {object}  domain.CollaborationRequest
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/requests/{id} [patch]
func (h *RequestHandler) Respond(c echo.Context) error {
	var patch domain.RequestStatusPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	r, err := h.service.Respond(c.Request().Context(), c.Param("id"), patch.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// ListByRecipient serves GET /v1/users/:id/requests.
func (h *RequestHandler) ListByRecipient(c echo.Context) error {
	reqs, err := h.requests.ListByRecipient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(reqs))
}
