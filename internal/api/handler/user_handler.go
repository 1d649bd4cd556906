package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/ports"
)

type UserHandler struct {
	users ports.UserStore
}

func NewUserHandler(users ports.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// Create registers a user profile.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User profile"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	u, err := h.users.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

// Get returns a user by id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Update applies a partial update. Absent fields keep their stored value.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "User ID"
// @Param        body  body      domain.UserPatch  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var patch domain.UserPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	u, err := h.users.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Search returns users whose text fields contain q.
//
// @Summary      Search users
// @Tags         users
// @Produce      json
// @Param        q      query     string  false  "Substring filter"
// @Param        limit  query     int     false  "Maximum results (default 20)"
// @Success      200    {object}  listResponse[domain.User]
// @Router       /v1/users [get]
func (h *UserHandler) Search(c echo.Context) error {
	p, err := bindListParams(c)
	if err != nil {
		return err
	}

	users, err := h.users.Search(c.Request().Context(), p.Query, p.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(users))
}

// GetByExternalIdentity resolves a user through the external identity index.
//
// @Router       /v1/users/by-identity/{externalId} [get]
func (h *UserHandler) GetByExternalIdentity(c echo.Context) error {
	u, err := h.users.GetByExternalIdentity(c.Request().Context(), c.Param("externalId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// GetByWalletAddress resolves a user through the wallet address index.
//
// @Router       /v1/users/by-wallet/{address} [get]
func (h *UserHandler) GetByWalletAddress(c echo.Context) error {
	u, err := h.users.GetByWalletAddress(c.Request().Context(), c.Param("address"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}
