package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/ports"
)

type OnboardingHandler struct {
	service ports.OnboardingService
}

func NewOnboardingHandler(service ports.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

// Onboard turns an identity record asserted by the social identity provider
// into a user. Answers 201 on first sign-in and 200 afterwards.
//
// @Summary      Onboard an external identity
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        body  body      domain.IdentityRecord  true  "Identity record"
// @Success      200   {object}  onboardingResponse
// @Success      201   {object}  onboardingResponse
// @Failure      422   {object}  map[string]string
// @Router       /v1/onboarding [post]
func (h *OnboardingHandler) Onboard(c echo.Context) error {
	var rec domain.IdentityRecord
	if err := c.Bind(&rec); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	u, created, err := h.service.Onboard(c.Request().Context(), rec)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, onboardingResponse{User: u, Created: created})
}
