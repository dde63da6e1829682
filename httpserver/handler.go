package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"kitchenagent"
)

type chatRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type chatResponse struct {
	Message   string                    `json:"message"`
	Recipes   []kitchenagent.Recipe     `json:"recipes"`
	Inventory []kitchenagent.Ingredient `json:"inventory"`
	NumPeople int                       `json:"num_people,omitempty"`
}

func errorResponse(message string) chatResponse {
	return chatResponse{
		Message:   message,
		Recipes:   []kitchenagent.Recipe{},
		Inventory: []kitchenagent.Ingredient{},
	}
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid request: user_id and message are required"))
		return
	}

	result, err := s.handler.HandleTurn(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		slog.Error("SERVER: Turn failed",
			"user_id", req.UserID,
			"request_id", c.GetString("request_id"),
			"error", err,
		)
		c.JSON(http.StatusBadGateway, errorResponse("the kitchen assistant is unavailable right now, please try again"))
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		Message:   result.Reply.Message,
		Recipes:   result.Recipes,
		Inventory: result.Inventory,
		NumPeople: result.NumPeople,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
