package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/sachiniyer/order-assistant/internal/domain"
)

type StartOrderRequest struct {
	Location string `json:"location" validate:"required"`
}

type StartOrderResponse struct {
	OrderID string `json:"orderId"`
}

type GetOrderResponse struct {
	Order    []domain.OrderItem `json:"order"`
	Messages []domain.Message   `json:"messages"`
}

// startOrderHandler godoc
//
//	@Summary		Start an order
//	@Description	Creates an empty order with an empty conversation
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		StartOrderRequest	true	"Start order request"
//	@Success		200		{object}	StartOrderResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/start [post]
func (app *application) startOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req StartOrderRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	orderID, err := app.orderService.StartOrder(r.Context(), req.Location)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, StartOrderResponse{OrderID: orderID}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getOrderHandler godoc
//
//	@Summary		Get order
//	@Description	Get the items and conversation of an order
//	@Tags			orders
//	@Produce		json
//	@Param			order_id	path		string	true	"Order ID"
//	@Success		200			{object}	GetOrderResponse
//	@Failure		401			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Failure		500			{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/order/{order_id} [get]
func (app *application) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		app.badRequestResponse(w, r, errors.New("order_id is required"))
		return
	}

	order, err := app.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		app.orderError(w, r, err)
		return
	}

	response := GetOrderResponse{
		Order:    order.Items,
		Messages: order.Messages,
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getOrderAuditHandler godoc
//
//	@Summary		Get order audit
//	@Description	Get the recorded turns of an order, newest first
//	@Tags			orders
//	@Produce		json
//	@Param			order_id	path		string	true	"Order ID"
//	@Param			limit		query		int		false	"Maximum number of records"
//	@Success		200			{array}		domain.OrderAudit
//	@Failure		400			{object}	map[string]string
//	@Failure		401			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Failure		500			{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/order/{order_id}/audit [get]
func (app *application) getOrderAuditHandler(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		app.badRequestResponse(w, r, errors.New("order_id is required"))
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			app.badRequestResponse(w, r, errors.New("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	audits, err := app.auditService.GetOrderAudit(r.Context(), orderID, limit)
	if err != nil {
		app.orderError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, audits); err != nil {
		app.internalServerError(w, r, err)
	}
}
