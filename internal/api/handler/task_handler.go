package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/ports"
)

type TaskHandler struct {
	tasks ports.TaskStore
}

func NewTaskHandler(tasks ports.TaskStore) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Create adds a task to a project. Status defaults to todo.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  domain.Task
// @Failure      422   {object}  map[string]string
// @Router       /v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	t, err := h.tasks.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TaskHandler) Get(c echo.Context) error {
	t, err := h.tasks.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

// Update changes a task in place; clearDueDate removes the due date.
func (h *TaskHandler) Update(c echo.Context) error {
	var patch domain.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	t, err := h.tasks.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) ListByProject(c echo.Context) error {
	tasks, err := h.tasks.ListByProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(tasks))
}
