package web

import (
	"fmt"
	"net/http"

	"github.com/vbonduro/marmitas/internal/service"
)

type orderLineRequest struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

type goomerOrderRequest struct {
	ClientName        string             `json:"client_name"`
	ExternalOrderID   int64              `json:"external_order_id"`
	ExternalCreatedAt string             `json:"external_created_at"`
	Items             []orderLineRequest `json:"items"`
}

type manualOrderRequest struct {
	Items []orderLineRequest `json:"items"`
}

type orderLineResponse struct {
	ItemName          string `json:"item_name"`
	Quantity          int    `json:"quantity"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type orderResponse struct {
	OrderID         string              `json:"order_id"`
	ClientName      *string             `json:"client_name"`
	ExternalOrderID *int64              `json:"external_order_id"`
	OrderItems      []orderLineResponse `json:"order_items"`
}

type cancelledOrderResponse struct {
	orderResponse
	IsCancelled bool   `json:"is_cancelled"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func (s *Server) handleCreateGoomerOrder(w http.ResponseWriter, r *http.Request) {
	var req goomerOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}
	clientName := normalizeName(req.ClientName)
	if err := requireName("client_name", clientName); err != nil {
		s.respondWithError(w, r, err)
		return
	}
	if req.ExternalOrderID <= 0 {
		s.respondWithError(w, r, fmt.Errorf("%w: external_order_id must be a positive integer", errBadRequest))
		return
	}
	lines, err := toOrderLines(req.Items)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	out, err := s.uc.CreateGoomerOrder.Execute(r.Context(), service.CreateGoomerOrderInput{
		ClientName:        clientName,
		ExternalOrderID:   req.ExternalOrderID,
		ExternalCreatedAt: req.ExternalCreatedAt,
		Items:             lines,
	})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, toOrderResponse(out.OrderID, out.ClientName, out.ExternalOrderID, out.OrderItems))
}

func (s *Server) handleCreateManualOrder(w http.ResponseWriter, r *http.Request) {
	var req manualOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}
	lines, err := toOrderLines(req.Items)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	out, err := s.uc.CreateManualOrder.Execute(r.Context(), service.CreateManualOrderInput{Items: lines})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, toOrderResponse(out.OrderID, out.ClientName, out.ExternalOrderID, out.OrderItems))
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	out, err := s.uc.CancelOrder.Execute(r.Context(), service.CancelOrderInput{OrderID: r.PathValue("id")})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, cancelledOrderResponse{
		orderResponse: toOrderResponse(out.OrderID, out.ClientName, out.ExternalOrderID, out.OrderItems),
		IsCancelled:   out.IsCancelled,
		CreatedAt:     out.CreatedAt,
		UpdatedAt:     out.UpdatedAt,
	})
}

func toOrderLines(items []orderLineRequest) ([]service.OrderLineInput, error) {
	lines := make([]service.OrderLineInput, 0, len(items))
	for _, item := range items {
		name := normalizeName(item.ItemName)
		if err := requireName("item_name", name); err != nil {
			return nil, err
		}
		lines = append(lines, service.OrderLineInput{ItemName: name, Quantity: item.Quantity})
	}
	return lines, nil
}

func toOrderResponse(id string, clientName *string, externalID *int64, lines []service.OrderLineOutput) orderResponse {
	resp := orderResponse{
		OrderID:         id,
		ClientName:      clientName,
		ExternalOrderID: externalID,
		OrderItems:      make([]orderLineResponse, 0, len(lines)),
	}
	for _, line := range lines {
		resp.OrderItems = append(resp.OrderItems, orderLineResponse{
			ItemName:          line.ItemName,
			Quantity:          line.Quantity,
			InventoryQuantity: line.InventoryQuantity,
		})
	}
	return resp
}
