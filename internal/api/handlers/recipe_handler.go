package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/recipes-be/internal/api/respond"
	"github.com/isdelr/recipes-be/internal/apperr"
	"github.com/isdelr/recipes-be/internal/models"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/isdelr/recipes-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// RecipeDeletedMessage is returned after a delete request.
const RecipeDeletedMessage = "Recipe deleted successfully."

// Notifier pushes recipe changes to live subscribers.
type Notifier interface {
	Publish(action string, payload any)
}

// RecipeHandler handles HTTP requests related to recipes.
type RecipeHandler struct {
	service  services.RecipeServiceProvider
	events   services.EventServiceProvider
	notifier Notifier
}

// NewRecipeHandler creates a new RecipeHandler. events may be nil, in which
// case changes are not recorded.
func NewRecipeHandler(service services.RecipeServiceProvider, events services.EventServiceProvider) *RecipeHandler {
	return &RecipeHandler{service: service, events: events}
}

// WithNotifier makes the handler publish every change to n.
func (h *RecipeHandler) WithNotifier(n Notifier) *RecipeHandler {
	h.notifier = n
	return h
}

// GetAll handles the request to get all recipes.
func (h *RecipeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.GetAllRecipes(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve recipes")
		respond.Error(w, apperr.ErrUnknown.WithCause(err))
		return
	}
	respond.Data(w, http.StatusOK, recipes)
}

// Create handles the request to create a new recipe.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respond.Error(w, apperr.ErrMalformedBody.WithCause(err))
		return
	}
	in, verr := validation.DecodeCreate(body)
	if verr != nil {
		respond.Error(w, verr)
		return
	}
	fields, verr := validation.ValidateCreate(in)
	if verr != nil {
		respond.Error(w, verr)
		return
	}

	recipe, err := h.service.CreateRecipe(r.Context(), fields)
	if err != nil {
		log.Error().Err(err).Str("name", fields.Name).Msg("Failed to create recipe")
		respond.Error(w, apperr.ErrUnknown.WithCause(err))
		return
	}

	h.record(r, models.EventRecipeCreated, recipe.ID, "Recipe created: "+recipe.Name, recipe)
	respond.Data(w, http.StatusCreated, recipe)
}

// Get handles the request to get a single recipe by its ID.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	recipe, lookup, err := h.service.GetRecipeByID(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("recipe_id", id).Msg("Failed to get recipe by ID")
		respond.Error(w, apperr.ErrUnknown.WithCause(err))
		return
	}
	if lookup != services.Found {
		log.Debug().Str("recipe_id", id).Stringer("lookup", lookup).Msg("Recipe not found")
		respond.Error(w, apperr.RecipeNotFound(id))
		return
	}
	respond.Data(w, http.StatusOK, recipe)
}

// Update handles the request to partially update an existing recipe.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := readBody(w, r)
	if err != nil {
		respond.Error(w, apperr.ErrMalformedBody.WithCause(err))
		return
	}
	in, verr := validation.DecodeUpdate(body)
	if verr != nil {
		respond.Error(w, verr)
		return
	}
	patch, verr := validation.ValidateUpdate(in)
	if verr != nil {
		respond.Error(w, verr)
		return
	}

	// Malformed ids are reported as missing, the same as on Get.
	_, lookup, err := h.service.GetRecipeByID(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("recipe_id", id).Msg("Failed to check recipe before update")
		respond.Error(w, apperr.ErrUnknown.WithCause(err))
		return
	}
	if lookup != services.Found {
		respond.Error(w, apperr.RecipeNotFound(id))
		return
	}

	recipe, lookup, err := h.service.UpdateRecipe(r.Context(), id, patch)
	if err != nil {
		log.Error().Err(err).Str("recipe_id", id).Msg("Failed to update recipe")
		respond.Error(w, apperr.ErrUnknown.WithCause(err))
		return
	}
	if lookup != services.Found {
		// Deleted between the existence check and the update.
		respond.Error(w, apperr.RecipeNotFound(id))
		return
	}

	h.record(r, models.EventRecipeUpdated, recipe.ID, "Recipe updated: "+recipe.Name, recipe)
	respond.Data(w, http.StatusOK, recipe)
}

// Delete handles the request to delete a recipe. There is no existence check:
// deleting an unknown id succeeds, while an id storage cannot interpret is an
// internal error.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := h.service.DeleteRecipe(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("recipe_id", id).Msg("Failed to delete recipe")
		respond.Error(w, apperr.ErrUnknown.WithCause(err))
		return
	}

	if deleted {
		h.record(r, models.EventRecipeDeleted, id, "Recipe deleted", map[string]string{"id": id})
	}
	respond.Message(w, http.StatusOK, RecipeDeletedMessage)
}

// record stores an activity event and publishes the change. Failures are
// logged and otherwise ignored.
func (h *RecipeHandler) record(r *http.Request, eventType, recipeID, message string, payload any) {
	if h.notifier != nil {
		h.notifier.Publish(eventType, payload)
	}
	if h.events == nil {
		return
	}
	if err := h.events.CreateEvent(r.Context(), eventType, recipeID, message, userIDFromRequest(r)); err != nil {
		log.Warn().Err(err).Str("recipe_id", recipeID).Str("event_type", eventType).Msg("Failed to record event")
	}
}
