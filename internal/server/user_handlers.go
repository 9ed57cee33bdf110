package server

import (
	"net/http"

	"github.com/vladimiradmaev/diabetes-tracker/internal/handlers"
)

// getSettings handles GET /api/users/{userID}/settings
func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	settings, err := s.services.Users.GetSettings(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, settings)
}

// updateSettings handles PUT /api/users/{userID}/settings
func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req SettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.services.Users.UpdateRatios(r.Context(), userID, req.FirstMealRatio, req.OtherMealRatio); err != nil {
		writeError(w, r, err)
		return
	}

	s.getSettings(w, r)
}

// createReading handles POST /api/users/{userID}/readings
func (s *Server) createReading(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req ReadingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := s.services.BloodSugar.AddRecord(r.Context(), userID, req.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, ReadingResponse{
		ID:        record.ID,
		Value:     record.Value,
		Timestamp: record.Timestamp,
	})
}

// listReadings handles GET /api/users/{userID}/readings
func (s *Server) listReadings(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}

	records, err := s.services.BloodSugar.GetUserRecords(r.Context(), userID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]ReadingResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, ReadingResponse{ID: rec.ID, Value: rec.Value, Timestamp: rec.Timestamp})
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// createPreset handles POST /api/users/{userID}/presets
func (s *Server) createPreset(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req PresetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	preset, err := s.services.Presets.Add(r.Context(), userID, req.Name, req.Carbs)
	if err != nil {
		writeError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, PresetResponse{ID: preset.ID, Name: preset.Name, Carbs: preset.Carbs})
}

// listPresets handles GET /api/users/{userID}/presets
func (s *Server) listPresets(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	presets, err := s.services.Presets.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]PresetResponse, 0, len(presets))
	for _, p := range presets {
		resp = append(resp, PresetResponse{ID: p.ID, Name: p.Name, Carbs: p.Carbs})
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// deletePreset handles DELETE /api/users/{userID}/presets/{presetID}
func (s *Server) deletePreset(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	presetID, ok := uintParam(w, r, "presetID")
	if !ok {
		return
	}

	if err := s.services.Presets.Delete(r.Context(), userID, presetID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
