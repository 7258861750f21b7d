package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopd/internal/apperr"
	"shopd/internal/orders"
)

func (a *API) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AddressID uuid.UUID         `json:"address_id"`
		Items     []orders.LineItem `json:"items"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	user := currentUser(r)
	order, err := a.orders.Create(r.Context(), user.ID, req.AddressID, req.Items)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"order": order})
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		respondBadRequest(w, errors.New("invalid order id"))
		return
	}

	order, err := a.orders.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	list, err := a.orders.ListForUser(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": list})
}

func (a *API) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID uuid.UUID `json:"order_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}
	if req.OrderID == uuid.Nil {
		respondError(w, apperr.Wrap(apperr.ErrBadRequest, "order_id is required"))
		return
	}

	receipt, err := a.payments.CreateIntent(r.Context(), req.OrderID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"payment": receipt})
}
