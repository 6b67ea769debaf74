package handlers

import (
	"errors"
	"net/http"

	"hebeos_todo/internal/domain"
	"hebeos_todo/internal/logger"
	"hebeos_todo/internal/repository"
	"hebeos_todo/internal/ws"

	"github.com/gin-gonic/gin"
)

type CreateTodoRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Deadline  string `json:"deadline" binding:"required"`
	Completed bool   `json:"completed"`
}

type DeleteTodoRequest struct {
	ID string `json:"id" binding:"required"`
}

func (h *Handler) ListTodos(c *gin.Context) {
	todos, err := h.Todos.List(c.Request.Context())
	if err != nil {
		logger.Error("list todos failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch todos"})
		return
	}
	c.JSON(http.StatusOK, todos)
}

func (h *Handler) CreateTodo(c *gin.Context) {
	var req CreateTodoRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	todo, err := h.Todos.Create(c.Request.Context(), domain.Todo{
		Title:     req.Title,
		Content:   req.Content,
		Deadline:  req.Deadline,
		Completed: req.Completed,
	})
	if err != nil {
		logger.Error("create todo failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create todo"})
		return
	}

	h.broadcast(ws.Event{Type: "created", Todo: &todo})
	c.JSON(http.StatusOK, todo)
}

// UpdateTodo applies a shallow merge of the submitted fields over the stored
// record. The body carries the id plus any subset of fields to replace.
func (h *Handler) UpdateTodo(c *gin.Context) {
	var req map[string]any
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	id, _ := req["id"].(string)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}
	delete(req, "id")

	todo, err := h.Todos.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
			return
		}
		logger.Error("update todo failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update todo"})
		return
	}

	h.broadcast(ws.Event{Type: "updated", Todo: &todo})
	c.JSON(http.StatusOK, todo)
}

func (h *Handler) DeleteTodo(c *gin.Context) {
	var req DeleteTodoRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.Todos.Delete(c.Request.Context(), req.ID); err != nil {
		logger.Error("delete todo failed", "id", req.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete todo"})
		return
	}

	h.broadcast(ws.Event{Type: "deleted", ID: req.ID})
	c.JSON(http.StatusOK, gin.H{"success": true})
}
