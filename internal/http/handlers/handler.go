package handlers

import (
	"hebeos_todo/internal/db"
	"hebeos_todo/internal/repository"
	"hebeos_todo/internal/service"
	"hebeos_todo/internal/ws"
)

type Handler struct {
	Todos *repository.TodoRepository
	Gate  *service.Gate
	Hub   *ws.Hub
}

func NewHandler(manager *db.Manager, gate *service.Gate, hub *ws.Hub) *Handler {
	return &Handler{
		Todos: repository.NewTodoRepository(manager),
		Gate:  gate,
		Hub:   hub,
	}
}

func (h *Handler) broadcast(event ws.Event) {
	if h.Hub != nil {
		h.Hub.Broadcast(event)
	}
}
