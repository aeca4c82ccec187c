package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/benvon/simple-todo/internal/logger"
	"github.com/benvon/simple-todo/internal/models"
	"github.com/benvon/simple-todo/internal/services/todo"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Generic failure messages returned for store errors
const (
	MsgFetchFailed      = "Failed to fetch todos"
	MsgCreateFailed     = "Failed to create todo"
	MsgUpdateFailed     = "Failed to update todo"
	MsgDeleteFailed     = "Failed to delete todo(s)"
	MsgRequestTooLarge  = "Request body too large"
	deleteAllQueryParam = "all"
)

// TodoHandler handles todo-related requests
type TodoHandler struct {
	service *todo.Service
	logger  *zap.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(service *todo.Service, l *zap.Logger) *TodoHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &TodoHandler{service: service, logger: l}
}

// RegisterRoutes registers todo routes on the given router.
// The router should already carry the collection prefix (e.g. from r.PathPrefix("/todos")).
func (h *TodoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTodos).Methods(http.MethodGet)
	r.HandleFunc("", h.CreateTodo).Methods(http.MethodPost)
	r.HandleFunc("", h.UpdateTodo).Methods(http.MethodPut)
	r.HandleFunc("", h.DeleteTodo).Methods(http.MethodDelete)
}

// createTodoRequest keeps title raw so a non-string value can be told apart from a string
type createTodoRequest struct {
	Title json.RawMessage `json:"title"`
}

// updateTodoRequest keeps every field raw; values of the wrong JSON type are ignored
type updateTodoRequest struct {
	ID    json.RawMessage `json:"id"`
	Done  json.RawMessage `json:"done"`
	Title json.RawMessage `json:"title"`
}

type deleteTodoRequest struct {
	ID json.RawMessage `json:"id"`
}

// ListTodos returns every todo, newest first
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed_to_fetch_todos", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, MsgFetchFailed)
		return
	}

	respondJSON(w, http.StatusOK, todos)
}

// CreateTodo creates a todo from {"title": "..."}
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if !h.decode(w, r, &req) {
		return
	}

	title := jsonString(req.Title)
	if title == nil {
		respondJSONError(w, http.StatusBadRequest, todo.MsgTitleRequired)
		return
	}

	created, err := h.service.Create(r.Context(), *title)
	if err != nil {
		if todo.IsValidationError(err) {
			respondJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed_to_create_todo", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, MsgCreateFailed)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// UpdateTodo applies {"id", "done"?, "title"?} to an existing todo
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	var req updateTodoRequest
	if !h.decode(w, r, &req) {
		return
	}

	input := todo.UpdateInput{
		Done:  jsonBool(req.Done),
		Title: jsonString(req.Title),
	}
	if id := jsonString(req.ID); id != nil {
		input.ID = *id
	}

	updated, err := h.service.Update(r.Context(), input)
	if err != nil {
		if todo.IsValidationError(err) {
			respondJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed_to_update_todo",
			zap.String("todo_id", logger.SanitizeID(input.ID)),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, MsgUpdateFailed)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteTodo removes one todo by body id, or every todo with ?all=true
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get(deleteAllQueryParam) == "true" {
		h.deleteAll(w, r)
		return
	}

	var req deleteTodoRequest
	if !h.decode(w, r, &req) {
		return
	}

	var id string
	if s := jsonString(req.ID); s != nil {
		id = *s
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if todo.IsValidationError(err) {
			respondJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed_to_delete_todo",
			zap.String("todo_id", logger.SanitizeID(id)),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, MsgDeleteFailed)
		return
	}

	respondJSON(w, http.StatusOK, models.DeleteResponse{Success: true})
}

func (h *TodoHandler) deleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.DeleteAll(r.Context())
	if err != nil {
		h.logger.Error("failed_to_delete_all_todos", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, MsgDeleteFailed)
		return
	}

	respondJSON(w, http.StatusOK, models.DeleteResponse{
		Success:      true,
		DeletedCount: &n,
		Message:      fmt.Sprintf("Successfully deleted %d todos", n),
	})
}

// decode reads the JSON body into dst and writes the error response on failure
func (h *TodoHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	tooLarge, err := decodeJSONBody(r, dst)
	if err == nil {
		return true
	}
	if tooLarge {
		respondJSONError(w, http.StatusRequestEntityTooLarge, MsgRequestTooLarge)
		return false
	}
	h.logger.Debug("invalid_request_body",
		zap.String("path", logger.SanitizePath(r.URL.Path)),
		zap.Error(err),
	)
	respondJSONError(w, http.StatusBadRequest, todo.MsgInvalidBody)
	return false
}
