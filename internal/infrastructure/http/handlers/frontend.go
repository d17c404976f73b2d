package handlers

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	appcatalog "github.com/tastebook/v1/internal/application/catalog"
	"github.com/tastebook/v1/internal/domain/catalog"
	"github.com/tastebook/v1/internal/infrastructure/session"
)

// FrontendHandlers serves the HTML pages
type FrontendHandlers struct {
	templates  *template.Template
	catalogSvc *appcatalog.CatalogService
	sessions   *SessionManager
	logger     *zap.Logger
}

// NewFrontendHandlers creates the frontend handlers
func NewFrontendHandlers(
	templates *template.Template,
	catalogSvc *appcatalog.CatalogService,
	sessions *SessionManager,
	logger *zap.Logger,
) *FrontendHandlers {
	return &FrontendHandlers{
		templates:  templates,
		catalogSvc: catalogSvc,
		sessions:   sessions,
		logger:     logger,
	}
}

func (h *FrontendHandlers) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("Template render failed", zap.String("template", name), zap.Error(err))
	}
}

// HandleHome renders the food group overview. Anonymous visitors get a
// fresh anti-forgery state token for the login widget.
func (h *FrontendHandlers) HandleHome(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.LoadOrCreate(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	groups, err := h.catalogSvc.ListFoodGroups(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	state := ""
	if !sess.LoggedIn() {
		state, err = session.NewStateToken()
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		sess.State = state
		if err := h.sessions.Save(r, sess); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}

	notice := ""
	if r.URL.Query().Get("notice") == "pick-a-group" {
		notice = "Please pick a food group first."
	}

	h.render(w, "home", map[string]interface{}{
		"Groups":       groups,
		"LoggedIn":     sess.LoggedIn(),
		"Username":     sess.Username,
		"State":        state,
		"Notice":       notice,
		"Difficulties": catalog.Difficulties(),
	})
}

// HandleHomeSubmit dispatches the home form: either create a new food
// group, or navigate to a group's difficulty view. The sentinel group
// value "-1" means no group was picked.
func (h *FrontendHandlers) HandleHomeSubmit(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.LoadOrCreate(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if name := r.PostFormValue("newFoodGroup"); name != "" {
		_, err := h.catalogSvc.CreateFoodGroup(r.Context(), appcatalog.CreateGroupCommand{Name: name}, actorFrom(sess))
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	groupID := r.PostFormValue("foodGroup")
	if groupID == "" || groupID == "-1" {
		http.Redirect(w, r, "/home?notice=pick-a-group", http.StatusSeeOther)
		return
	}

	level := r.PostFormValue("difficulty")
	if _, err := catalog.ParseDifficulty(level); err != nil {
		level = string(catalog.DifficultyBeginner)
	}

	http.Redirect(w, r, "/food-groups/"+groupID+"/difficulty/"+level, http.StatusSeeOther)
}

// pageContext resolves the group and difficulty shared by the item routes
func (h *FrontendHandlers) pageContext(r *http.Request) (uint, catalog.Difficulty, error) {
	groupID, err := urlParamUint(r, "groupID")
	if err != nil {
		return 0, "", err
	}
	level, err := difficultyParam(r)
	if err != nil {
		return 0, "", err
	}
	return groupID, level, nil
}

// HandleFoodGroup renders a group's items at one difficulty level
func (h *FrontendHandlers) HandleFoodGroup(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.LoadOrCreate(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	groupID, level, err := h.pageContext(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	group, items, err := h.catalogSvc.ListFoodItems(r.Context(), groupID, level)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.render(w, "food_group", map[string]interface{}{
		"Group":        group,
		"Items":        items,
		"Difficulty":   level,
		"Difficulties": catalog.Difficulties(),
		"LoggedIn":     sess.LoggedIn(),
		"Username":     sess.Username,
	})
}

// HandleFoodItem renders a single item page
func (h *FrontendHandlers) HandleFoodItem(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.LoadOrCreate(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	groupID, level, err := h.pageContext(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

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

	h.render(w, "food_item", map[string]interface{}{
		"GroupID":    groupID,
		"Difficulty": level,
		"Item":       item,
		"LoggedIn":   sess.LoggedIn(),
		"IsCreator":  sess.LoggedIn() && (item.CreatorEmail == "" || item.CreatedBy(sess.Email)),
	})
}

// HandleNewItemForm renders the add-item form
func (h *FrontendHandlers) HandleNewItemForm(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.LoadOrCreate(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	groupID, level, err := h.pageContext(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	group, err := h.catalogSvc.GetFoodGroup(r.Context(), groupID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.render(w, "item_form", map[string]interface{}{
		"Group":      group,
		"Difficulty": level,
		"LoggedIn":   sess.LoggedIn(),
	})
}

// HandleCreateItem creates an item from the add-item form
func (h *FrontendHandlers) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.LoadOrCreate(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	groupID, level, err := h.pageContext(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	_, err = h.catalogSvc.CreateFoodItem(r.Context(), appcatalog.CreateItemCommand{
		Name:        r.PostFormValue("name"),
		Difficulty:  string(level),
		Description: r.PostFormValue("description"),
		Recipe:      r.PostFormValue("recipe"),
		FoodGroupID: groupID,
	}, actorFrom(sess))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	http.Redirect(w, r, groupPath(groupID, level), http.StatusSeeOther)
}

// HandleEditItemForm renders the edit form with current values
func (h *FrontendHandlers) HandleEditItemForm(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.LoadOrCreate(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	groupID, level, err := h.pageContext(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

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

	h.render(w, "edit_item", map[string]interface{}{
		"GroupID":    groupID,
		"Difficulty": level,
		"Item":       item,
		"LoggedIn":   sess.LoggedIn(),
	})
}

// HandleUpdateItem applies the edit form. Empty fields keep their stored
// values.
func (h *FrontendHandlers) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.LoadOrCreate(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	groupID, level, err := h.pageContext(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	itemID, err := urlParamUint(r, "itemID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	_, err = h.catalogSvc.UpdateFoodItem(r.Context(), itemID, appcatalog.UpdateItemCommand{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Recipe:      r.PostFormValue("recipe"),
	}, actorFrom(sess))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	http.Redirect(w, r, itemPath(groupID, level, itemID), http.StatusSeeOther)
}

// HandleDeleteItemForm renders the delete confirmation page
func (h *FrontendHandlers) HandleDeleteItemForm(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.LoadOrCreate(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	groupID, level, err := h.pageContext(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

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

	h.render(w, "delete_item", map[string]interface{}{
		"GroupID":    groupID,
		"Difficulty": level,
		"Item":       item,
		"LoggedIn":   sess.LoggedIn(),
	})
}

// HandleDeleteItem deletes the item after confirmation
func (h *FrontendHandlers) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.LoadOrCreate(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	groupID, level, err := h.pageContext(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	itemID, err := urlParamUint(r, "itemID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.catalogSvc.DeleteFoodItem(r.Context(), itemID, actorFrom(sess)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	http.Redirect(w, r, groupPath(groupID, level), http.StatusSeeOther)
}
