package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabhub/network/internal/core/ports"
)

type MatchHandler struct {
	service ports.MatchService
}

func NewMatchHandler(service ports.MatchService) *MatchHandler {
	return &MatchHandler{service: service}
}

// Find ranks candidate users against the subject in the path.
//
// @Summary      Find matches for a user
// @Tags         matches
// @Produce      json
// @Param        id       path      string  true   "Subject user ID"
// @Param        q        query     string  false  "Substring filter on candidates"
// @Param        limit    query     int     false  "Candidates examined (default 20)"
// @Param        persist  query     bool    false  "Write scores to the match cache"
// @Success      200      {object}  listResponse[domain.MatchScore]
// @Failure      404      {object}  map[string]string
// @Router       /v1/users/{id}/matches [get]
func (h *MatchHandler) Find(c echo.Context) error {
	p, err := bindListParams(c)
	if err != nil {
		return err
	}
	var persist bool
	if err := echo.QueryParamsBinder(c).Bool("persist", &persist).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	scores, err := h.service.FindMatches(c.Request().Context(), ports.FindMatchesInput{
		SubjectID: c.Param("id"),
		Query:     p.Query,
		Limit:     p.Limit,
		Persist:   persist,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(scores))
}

// Cached returns the scores last persisted for the subject, ranked. The
// result may be stale or empty.
func (h *MatchHandler) Cached(c echo.Context) error {
	scores, err := h.service.Cached(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(scores))
}

// TeamScores scores every collaborator of a project against its creator.
func (h *MatchHandler) TeamScores(c echo.Context) error {
	scores, err := h.service.ScoreProjectTeam(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(scores))
}
