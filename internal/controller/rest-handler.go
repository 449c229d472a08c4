package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sharetube/town/internal/domain"
	"github.com/sharetube/town/pkg/rest"
)

func (c Controller) Health(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": "ok"})
}

func (c Controller) GetTown(w http.ResponseWriter, r *http.Request) {
	var snapshot domain.TownSnapshot
	if err := c.town.Do(r.Context(), func() { snapshot = c.town.Snapshot() }); err != nil {
		c.logger.InfoContext(r.Context(), "GetTown", "err", err)
		rest.WriteJSON(w, http.StatusServiceUnavailable, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": snapshot})
}

func (c Controller) GetConversationArea(w http.ResponseWriter, r *http.Request) {
	areaID := chi.URLParam(r, "area-id")

	var model domain.ConversationAreaModel
	var lookupErr error
	if err := c.town.Do(r.Context(), func() {
		area, err := c.town.ConversationArea(areaID)
		if err != nil {
			lookupErr = err
			return
		}
		model = area.ToConversationAreaModel()
	}); err != nil {
		lookupErr = err
	}

	if lookupErr != nil {
		c.writeError(w, r, "GetConversationArea", lookupErr)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": model})
}

func (c Controller) GetViewingArea(w http.ResponseWriter, r *http.Request) {
	areaID := chi.URLParam(r, "area-id")

	var model domain.ViewingAreaModel
	var lookupErr error
	if err := c.town.Do(r.Context(), func() {
		area, err := c.town.ViewingArea(areaID)
		if err != nil {
			lookupErr = err
			return
		}
		model = area.ViewingAreaModel()
	}); err != nil {
		lookupErr = err
	}

	if lookupErr != nil {
		c.writeError(w, r, "GetViewingArea", lookupErr)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": model})
}

// updateViewingArea accepts a full viewing area model; the area ID always
// comes from the path.
type updateViewingArea struct {
	ID             string  `json:"id"`
	IsPlaying      bool    `json:"is_playing"`
	ElapsedTimeSec float64 `json:"elapsed_time_sec" validate:"gte=0"`
	Video          *string `json:"video"`
}

// UpdateViewingArea applies a local playback change and publishes it to the
// town server when anything actually changed.
func (c Controller) UpdateViewingArea(w http.ResponseWriter, r *http.Request) {
	areaID := chi.URLParam(r, "area-id")

	var req updateViewingArea
	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.InfoContext(r.Context(), "UpdateViewingArea", "read json err", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.logger.InfoContext(r.Context(), "UpdateViewingArea", "validate err", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	var model domain.ViewingAreaModel
	var changed bool
	var lookupErr error
	if err := c.town.Do(r.Context(), func() {
		area, err := c.town.ViewingArea(areaID)
		if err != nil {
			lookupErr = err
			return
		}
		changed = area.UpdateFrom(domain.ViewingAreaModel{
			ID:             areaID,
			IsPlaying:      req.IsPlaying,
			ElapsedTimeSec: req.ElapsedTimeSec,
			Video:          req.Video,
		})
		model = area.ViewingAreaModel()
	}); err != nil {
		lookupErr = err
	}

	if lookupErr != nil {
		c.writeError(w, r, "UpdateViewingArea", lookupErr)
		return
	}

	if changed {
		if err := c.publisher.SendViewingAreaUpdate(r.Context(), model); err != nil {
			c.logger.InfoContext(r.Context(), "UpdateViewingArea", "publish err", err)
		}
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": model, "changed": changed})
}

func (c Controller) writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	c.logger.InfoContext(r.Context(), funcName, "err", err)
	if errors.Is(err, domain.ErrAreaNotFound) {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusServiceUnavailable, rest.Envelope{"error": err.Error()})
}
