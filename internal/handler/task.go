package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"tasktracker/internal/config"
	"tasktracker/internal/middleware"
	"tasktracker/internal/model"
	"tasktracker/internal/queue"
	"tasktracker/internal/repository"
	"tasktracker/internal/utils"
)

// TaskHandler bundles dependencies for the task CRUD endpoints. Events is
// nil when no broker is configured; publishing is best effort either way.
type TaskHandler struct {
	Cfg    config.Config
	Tasks  repository.TaskStore
	Events queue.Publisher
}

func NewTaskHandler(cfg config.Config, tasks repository.TaskStore, events queue.Publisher) *TaskHandler {
	return &TaskHandler{Cfg: cfg, Tasks: tasks, Events: events}
}

// ----- DTOs -----

type createTaskReq struct {
	Task      string `json:"task"`
	Urgency   string `json:"urgency"`
	Completed *bool  `json:"completed"`
}

// updateTaskReq uses pointers so "field absent" and "zero value" stay
// distinguishable: completed=false is a present value, not a missing one.
type updateTaskReq struct {
	Task      string `json:"task"`
	Urgency   string `json:"urgency"`
	Completed *bool  `json:"completed"`
}

type taskListResp struct {
	Tasks      []model.Task `json:"tasks"`
	TotalTasks int          `json:"totalTasks"`
	NumOfPages int          `json:"numOfPages"`
}

// validationError reports which required fields a request left out. The
// response body stays the original's fixed message; the field list exists
// for logging and tests.
type validationError struct {
	Missing []string
}

func (e *validationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// validateUpdate requires task, urgency and completed to all be present.
// Only task and completed changes are meaningful, but the contract demands
// urgency too, so its absence is a validation failure like the others.
func validateUpdate(req updateTaskReq) *validationError {
	var missing []string
	if strings.TrimSpace(req.Task) == "" {
		missing = append(missing, "task")
	}
	if strings.TrimSpace(req.Urgency) == "" {
		missing = append(missing, "urgency")
	}
	if req.Completed == nil {
		missing = append(missing, "completed")
	}
	if len(missing) > 0 {
		return &validationError{Missing: missing}
	}
	return nil
}

// publish fires a task event without ever failing the request.
func (h *TaskHandler) publish(typ string, t model.Task) {
	if h.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = h.Events.PublishTaskEvent(ctx, queue.TaskEvent{
		Type:       typ,
		TaskID:     t.ID,
		UserID:     t.CreatedBy,
		Task:       t.Task,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// Create handles POST /api/v1/task. The task text is required; urgency
// defaults to low and completed to false, like the original schema.
func (h *TaskHandler) Create(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Authentication Invalid!"})
	}
	var req createTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Please provide all values!"})
	}
	req.Task = strings.TrimSpace(req.Task)
	if req.Task == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Please provide all values!"})
	}
	if len(req.Task) > model.TaskMaxLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Task must be 100 characters or less!"})
	}
	urgency := req.Urgency
	if urgency == "" {
		urgency = model.UrgencyLow
	}
	if !model.ValidUrgency(urgency) {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Urgency must be one of: high, medium, low!"})
	}
	completed := false
	if req.Completed != nil {
		completed = *req.Completed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	t, err := h.Tasks.Create(ctx, model.Task{
		Task:      req.Task,
		Urgency:   urgency,
		Completed: completed,
		CreatedBy: id.UserID, // authorization anchor, never reassigned
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Something went wrong, try again later!"})
	}
	h.publish(queue.TaskCreated, t)
	return c.JSON(http.StatusCreated, t)
}

// List handles GET /api/v1/task?page=&limit=. Results are scoped to the
// caller's own tasks; page defaults to 1 and limit to 10.
func (h *TaskHandler) List(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Authentication Invalid!"})
	}

	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	tasks, err := h.Tasks.ListByCreator(ctx, id.UserID, offset, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Something went wrong, try again later!"})
	}
	total, err := h.Tasks.CountByCreator(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Something went wrong, try again later!"})
	}
	numOfPages := (total + limit - 1) / limit

	return c.JSON(http.StatusOK, taskListResp{
		Tasks:      tasks,
		TotalTasks: total,
		NumOfPages: numOfPages,
	})
}

// Update handles PATCH /api/v1/task/:id. Order matters: validate the body,
// load the task (404 wins over everything identity-related), check
// ownership, then write. The ownership check runs strictly before the
// mutation reaches the store.
func (h *TaskHandler) Update(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Authentication Invalid!"})
	}
	taskID := c.Param("id")

	var req updateTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Please provide all values!"})
	}
	if verr := validateUpdate(req); verr != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Please provide all values!"})
	}
	req.Task = strings.TrimSpace(req.Task)
	if len(req.Task) > model.TaskMaxLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Task must be 100 characters or less!"})
	}
	if !model.ValidUrgency(req.Urgency) {
		return c.JSON(http.StatusBadRequest, echo.Map{"msg": "Urgency must be one of: high, medium, low!"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	cur, err := h.Tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": fmt.Sprintf("No task with id: %s!", taskID)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Something went wrong, try again later!"})
	}
	if err := utils.CheckOwnership(id, cur.CreatedBy); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"msg": "Unauthorized to access this route!"})
	}

	cur.Task = req.Task
	cur.Urgency = req.Urgency
	cur.Completed = *req.Completed
	updated, err := h.Tasks.Update(ctx, cur)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Something went wrong, try again later!"})
	}
	h.publish(queue.TaskUpdated, updated)
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/task/:id with the same load-then-authorize
// ordering as Update.
func (h *TaskHandler) Delete(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Authentication Invalid!"})
	}
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	cur, err := h.Tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": fmt.Sprintf("No task with id: %s!", taskID)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Something went wrong, try again later!"})
	}
	if err := utils.CheckOwnership(id, cur.CreatedBy); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"msg": "Unauthorized to access this route!"})
	}

	if err := h.Tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": fmt.Sprintf("No task with id: %s!", taskID)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Something went wrong, try again later!"})
	}
	h.publish(queue.TaskDeleted, cur)
	return c.JSON(http.StatusOK, echo.Map{"msg": "Success! Task removed!"})
}
