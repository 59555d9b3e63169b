package handler

import (
	"net/http"
	"time"

	"github.com/rmoretto/taskboard/internal/service"
)

// TaskHandler handles task-related HTTP requests, including task history
// and comments.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type taskRequest struct {
	ResponsibleUserID int64   `json:"responsibleUserId"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	DueDate           *string `json:"dueDate"`
	Status            string  `json:"status"`
	Priority          string  `json:"priority"`
}

// HandleListByProject returns all tasks of a project.
func (h *TaskHandler) HandleListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	tasks, err := h.tasks.ListByProject(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTOs(tasks))
}

// HandleCreate creates a new task under a project.
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var req taskRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	due, err := parseDueDate(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid due date")
		return
	}

	task, err := h.tasks.Create(r.Context(), projectID, service.TaskInput{
		ResponsibleUserID: req.ResponsibleUserID,
		Title:             req.Title,
		Description:       req.Description,
		DueDate:           due,
		Status:            req.Status,
		Priority:          req.Priority,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskDTO(task))
}

// HandleGet returns one task.
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := h.tasks.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// HandleUpdate applies new field values to a task. Field changes are
// recorded in the task history, attributed to the authenticated user.
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req taskRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	due, err := parseDueDate(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid due date")
		return
	}

	err = h.tasks.Update(r.Context(), id, user.ID, service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes a task and its history.
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.tasks.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleHistory returns a task's audit trail.
func (h *TaskHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	entries, err := h.tasks.History(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toHistoryEntryDTOs(entries))
}

// HandleAddComment appends a comment to a task's history.
func (h *TaskHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.tasks.AddComment(r.Context(), id, user.ID, req.Comment); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func parseDueDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		// Accept a bare date as well.
		t, err = time.Parse("2006-01-02", *s)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}
