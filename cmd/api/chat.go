package main

import (
	"net/http"

	"github.com/sachiniyer/order-assistant/internal/domain"
)

type ChatRequest struct {
	OrderID  string `json:"orderId" validate:"required"`
	Input    string `json:"input" validate:"required"`
	Location string `json:"location" validate:"required"`
}

type ChatResponse struct {
	OrderID  string             `json:"orderId"`
	Order    []domain.OrderItem `json:"order"`
	Messages []domain.Message   `json:"messages"`
}

// chatHandler godoc
//
//	@Summary		Send a chat message
//	@Description	Runs one assistant turn for the order and returns the updated order
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ChatRequest	true	"Chat request"
//	@Success		200		{object}	ChatResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		502		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/chat [post]
func (app *application) chatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	order, err := app.orderService.Chat(r.Context(), req.OrderID, req.Input, req.Location)
	if err != nil {
		app.orderError(w, r, err)
		return
	}

	response := ChatResponse{
		OrderID:  order.ID,
		Order:    order.Items,
		Messages: order.Messages,
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
