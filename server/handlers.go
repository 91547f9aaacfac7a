package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	sheetdash "github.com/ideamans/go-sheetdash"
)

const notConfigured = "SERVER_NOT_CONFIGURED"

const maxBodyBytes = 1 << 20

type dataResponse struct {
	Data     []*sheetdash.Record `json:"data"`
	Metadata metadata            `json:"metadata"`
}

type metadata struct {
	Spreadsheet string               `json:"spreadsheet"`
	Sheet       string               `json:"sheet"`
	SheetID     string               `json:"sheetId"`
	GID         int64                `json:"gid"`
	Count       int                  `json:"count"`
	UpdatedAt   string               `json:"updatedAt"`
	Baselines   *sheetdash.Baselines `json:"baselines,omitempty"`
}

type saveConfigRequest struct {
	SheetID json.RawMessage `json:"sheetId"` // string or number
}

type saveConfigResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	SheetID string `json:"sheetId"`
	Note    string `json:"note,omitempty"`
}

type configResponse struct {
	SheetID string           `json:"sheetId"`
	Source  sheetdash.Origin `json:"source"`
}

// handleData returns the records of the active spreadsheet
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   notConfigured,
			"message": "Google service account credentials are not configured",
		})
		return
	}

	sheetID := s.resolver.Resolve()

	sheet, err := s.source.Fetch(r.Context(), sheetID, sheetdash.MaxRows)
	if err != nil {
		if errors.Is(err, sheetdash.ErrNotConfigured) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   notConfigured,
				"message": err.Error(),
			})
			return
		}

		log.Printf("failed to fetch spreadsheet %s: %v", sheetID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	records := sheetdash.Transform(sheet.Values)

	writeJSON(w, http.StatusOK, dataResponse{
		Data: records,
		Metadata: metadata{
			Spreadsheet: sheet.SpreadsheetTitle,
			Sheet:       sheet.Name,
			SheetID:     sheetID,
			GID:         sheet.ID,
			Count:       len(records),
			UpdatedAt:   s.now().UTC().Format(timestampLayout),
			Baselines:   s.config.Baselines,
		},
	})
}

// handleGetConfig reports the active spreadsheet and where it was configured
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	id, origin := s.resolver.Lookup()

	writeJSON(w, http.StatusOK, configResponse{
		SheetID: id,
		Source:  origin,
	})
}

// handleSaveConfig switches the active spreadsheet. The change always applies to
// the running process even when it cannot be written to disk.
func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// json.Unmarshal rejects trailing data after the object
	var rq saveConfigRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &rq); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	raw, ok := sheetIDText(rq.SheetID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sheetID := sheetdash.ParseSpreadsheetID(raw)
	if sheetID == "" {
		writeError(w, http.StatusBadRequest, "Missing sheetId")
		return
	}

	response := saveConfigResponse{
		Success: true,
		Message: "Sheet ID updated",
		SheetID: sheetID,
	}

	if err := s.resolver.Store.Save(sheetID, s.now()); err != nil {
		log.Printf("sheet id %s applies to this session only: %v", sheetID, err)
		response.Note = "Could not save configuration to disk; the new sheet ID applies to this session only"
	} else {
		log.Printf("sheet id set to %s", sheetID)
	}

	writeJSON(w, http.StatusOK, response)
}

// sheetIDText accepts a JSON string or number; missing and null read as empty
func sheetIDText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", true
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, true
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		return number.String(), true
	}

	return "", false
}
