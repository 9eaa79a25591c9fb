package handler

import (
	"net/http"

	"taskboard/internal/middleware"
	"taskboard/internal/usecase/board"
	"taskboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardHandler struct {
	service *board.Service
}

func NewBoardHandler(service *board.Service) *BoardHandler {
	return &BoardHandler{service: service}
}

func (h *BoardHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.PUT("/me/tasks", h.Reconcile)
		users.PUT("/me/tasks/:taskId", h.UpdateTask)
	}
}

type reconcileBody struct {
	Tasks board.ReconcileRequest `json:"tasks"`
}

func (h *BoardHandler) Reconcile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid token.")
		return
	}

	var body reconcileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Reconcile(c.Request.Context(), userID, &body.Tasks)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Board updated successfully", result)
}

func (h *BoardHandler) UpdateTask(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid token.")
		return
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req board.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.UpdateTask(c.Request.Context(), userID, taskID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Task updated successfully", result)
}
