package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/ports"
)

type ProjectHandler struct {
	projects ports.ProjectStore
}

func NewProjectHandler(projects ports.ProjectStore) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Create stores a project. Status defaults to draft.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body      createProjectRequest  true  "Project"
// @Success      201   {object}  domain.Project
// @Failure      422   {object}  map[string]string
// @Router       /v1/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	p, err := h.projects.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProjectHandler) Get(c echo.Context) error {
	p, err := h.projects.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProjectHandler) Update(c echo.Context) error {
	var patch domain.ProjectPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	p, err := h.projects.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// List returns the projects of one creator when creatorId is given and
// otherwise searches by q.
//
// @Summary      List or search projects
// @Tags         projects
// @Produce      json
// @Param        creatorId  query     string  false  "Creator user ID"
// @Param        q          query     string  false  "Substring filter"
// @Param        limit      query     int     false  "Maximum search results"
// @Success      200        {object}  listResponse[domain.Project]
// @Router       /v1/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if creatorID := c.QueryParam("creatorId"); creatorID != "" {
		projects, err := h.projects.ListByCreator(ctx, creatorID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, newListResponse(projects))
	}

	p, err := bindListParams(c)
	if err != nil {
		return err
	}
	projects, err := h.projects.Search(ctx, p.Query, p.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(projects))
}
