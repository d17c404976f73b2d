package handlers

import (
	"net/http"

	"go.uber.org/zap"

	appcatalog "github.com/tastebook/v1/internal/application/catalog"
	"github.com/tastebook/v1/internal/domain/catalog"
)

// APIHandlers serves the JSON endpoints
type APIHandlers struct {
	catalogSvc *appcatalog.CatalogService
	logger     *zap.Logger
}

// NewAPIHandlers creates the API handlers
func NewAPIHandlers(catalogSvc *appcatalog.CatalogService, logger *zap.Logger) *APIHandlers {
	return &APIHandlers{
		catalogSvc: catalogSvc,
		logger:     logger,
	}
}

type foodGroupPayload struct {
	Name string `json:"name"`
	ID   uint   `json:"id"`
}

type foodItemPayload struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Difficulty  string `json:"difficulty"`
	Description string `json:"description"`
	Recipe      string `json:"recipe"`
}

func toItemPayload(item *catalog.FoodItem) foodItemPayload {
	return foodItemPayload{
		ID:          item.ID,
		Name:        item.Name,
		Difficulty:  string(item.Difficulty),
		Description: item.Description,
		Recipe:      item.Recipe,
	}
}

// ListFoodGroups returns all food groups as JSON
func (h *APIHandlers) ListFoodGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.catalogSvc.ListFoodGroups(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	payload := make([]foodGroupPayload, len(groups))
	for i, g := range groups {
		payload[i] = foodGroupPayload{Name: g.Name, ID: g.ID}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"foodGroups": payload})
}

// ListFoodItems returns a group's items at one difficulty level as JSON
func (h *APIHandlers) ListFoodItems(w http.ResponseWriter, r *http.Request) {
	groupID, err := urlParamUint(r, "groupID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	level, err := difficultyParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	group, items, err := h.catalogSvc.ListFoodItems(r.Context(), groupID, level)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	payload := make([]foodItemPayload, len(items))
	for i, item := range items {
		payload[i] = toItemPayload(item)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"foodGroupID":   group.ID,
		"foodGroupName": group.Name,
		"difficulty":    string(level),
		"items":         payload,
	})
}

// GetFoodItem returns a single item as JSON. The payload keeps the
// single-element array shape older clients depend on.
func (h *APIHandlers) GetFoodItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := urlParamUint(r, "itemID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	item, err := h.catalogSvc.GetFoodItem(r.Context(), itemID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"foodItem": []foodItemPayload{toItemPayload(item)},
	})
}
