package web

import (
	"net/http"

	"github.com/vbonduro/marmitas/internal/service"
)

type itemJSON struct {
	ItemName          string `json:"item_name"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type itemListJSON struct {
	Items []itemJSON `json:"items"`
}

type itemNameJSON struct {
	ItemName string `json:"item_name"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req itemJSON
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}
	name := normalizeName(req.ItemName)
	if err := requireName("item_name", name); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	out, err := s.uc.AddItem.Execute(r.Context(), service.AddItemInput{ItemName: name, InventoryQuantity: req.InventoryQuantity})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, itemJSON{ItemName: out.ItemName, InventoryQuantity: out.InventoryQuantity})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	out, err := s.uc.ListItems.Execute(r.Context())
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, itemListJSON{Items: toItemsJSON(out.Items)})
}

func (s *Server) handleSetInventoryQuantities(w http.ResponseWriter, r *http.Request) {
	var req itemListJSON
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	in := service.SetInventoryQuantitiesInput{Items: make([]service.ItemInventory, 0, len(req.Items))}
	for _, item := range req.Items {
		name := normalizeName(item.ItemName)
		if err := requireName("item_name", name); err != nil {
			s.respondWithError(w, r, err)
			return
		}
		in.Items = append(in.Items, service.ItemInventory{ItemName: name, InventoryQuantity: item.InventoryQuantity})
	}

	out, err := s.uc.SetInventoryQuantities.Execute(r.Context(), in)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, itemListJSON{Items: toItemsJSON(out.Items)})
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	var req itemNameJSON
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}
	name := normalizeName(req.ItemName)
	if err := requireName("item_name", name); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	out, err := s.uc.RemoveItem.Execute(r.Context(), service.RemoveItemInput{ItemName: name})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, itemNameJSON{ItemName: out.ItemName})
}

func toItemsJSON(items []service.ItemInventory) []itemJSON {
	out := make([]itemJSON, 0, len(items))
	for _, item := range items {
		out = append(out, itemJSON{ItemName: item.ItemName, InventoryQuantity: item.InventoryQuantity})
	}
	return out
}
