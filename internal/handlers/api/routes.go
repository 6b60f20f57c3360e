package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/character"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	characterService "github.com/KirkDiggler/symbaroum-vtt/internal/services/character"
	rollService "github.com/KirkDiggler/symbaroum-vtt/internal/services/roll"
	"github.com/KirkDiggler/symbaroum-vtt/internal/sheetstate"
	"github.com/gorilla/mux"
)

type rollRequest struct {
	CampaignID  string `json:"campaign_id"`
	Formula     string `json:"formula"`
	Label       string `json:"label,omitempty"`
	CharacterID string `json:"character_id,omitempty"`
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	var req rollRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.rolls.RollFormula(r.Context(), &rollService.RollFormulaInput{
		Author:      author(r, req.CampaignID),
		Formula:     req.Formula,
		Label:       req.Label,
		CharacterID: req.CharacterID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type checkRequest struct {
	CampaignID       string           `json:"campaign_id,omitempty"`
	Attribute        shared.Attribute `json:"attribute,omitempty"`
	AttributeValue   int              `json:"attribute_value,omitempty"`
	Modifier         int              `json:"modifier"`
	WithAdvantage    bool             `json:"with_advantage"`
	WithDisadvantage bool             `json:"with_disadvantage"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	s.check(w, r, "")
}

func (s *Server) handleCharacterCheck(w http.ResponseWriter, r *http.Request) {
	s.check(w, r, mux.Vars(r)["id"])
}

func (s *Server) check(w http.ResponseWriter, r *http.Request, characterID string) {
	var req checkRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.rolls.AttributeTest(r.Context(), &rollService.AttributeTestInput{
		Author:           author(r, req.CampaignID),
		CharacterID:      characterID,
		Attribute:        req.Attribute,
		AttributeValue:   req.AttributeValue,
		Modifier:         req.Modifier,
		WithAdvantage:    req.WithAdvantage,
		WithDisadvantage: req.WithDisadvantage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type damageRequest struct {
	CampaignID        string `json:"campaign_id,omitempty"`
	DamageFormula     string `json:"damage_formula"`
	ProtectionFormula string `json:"protection_formula,omitempty"`
	ProtectionPenalty int    `json:"protection_penalty,omitempty"`
	Apply             bool   `json:"apply,omitempty"`
}

func (s *Server) handleDamage(w http.ResponseWriter, r *http.Request) {
	var req damageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.rolls.Damage(r.Context(), &rollService.DamageInput{
		Author:            author(r, req.CampaignID),
		TargetID:          mux.Vars(r)["id"],
		DamageFormula:     req.DamageFormula,
		ProtectionFormula: req.ProtectionFormula,
		ProtectionPenalty: req.ProtectionPenalty,
		Apply:             req.Apply,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type derivedRequest struct {
	Sheet *character.SheetData `json:"sheet"`
}

func (s *Server) handleDerived(w http.ResponseWriter, r *http.Request) {
	var req derivedRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.characters.CalculateDerived(req.Sheet))
}

type createCharacterRequest struct {
	CampaignID string               `json:"campaign_id"`
	Name       string               `json:"name"`
	Kind       shared.CharacterKind `json:"kind,omitempty"`
	Sheet      *character.SheetData `json:"sheet,omitempty"`
}

func (s *Server) handleCreateCharacter(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req createCharacterRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	sheet, err := s.characters.Create(r.Context(), &characterService.CreateInput{
		OwnerID:    userID,
		CampaignID: req.CampaignID,
		Name:       req.Name,
		Kind:       req.Kind,
		Sheet:      req.Sheet,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sheet)
}

// handleListCharacters lists the calling user's characters
func (s *Server) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sheets, err := s.characters.ListByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"characters": sheets})
}

func (s *Server) handleCampaignCharacters(w http.ResponseWriter, r *http.Request) {
	sheets, err := s.characters.ListByCampaign(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"characters": sheets})
}

func (s *Server) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	sheet, err := s.characters.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (s *Server) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	if err := s.characters.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sheetActionsRequest struct {
	Actions []json.RawMessage `json:"actions"`
}

func (s *Server) handleSheetActions(w http.ResponseWriter, r *http.Request) {
	var req sheetActionsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	actions, err := sheetstate.DecodeActions(req.Actions)
	if err != nil {
		writeError(w, err)
		return
	}

	sheet, err := s.characters.UpdateSheet(r.Context(), mux.Vars(r)["id"], actions...)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	limit := s.chatPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, vtterr.InvalidArgumentf("limit must be a positive integer, got %q", raw))
			return
		}
		limit = min(parsed, s.chatPageSize)
	}

	msgs, err := s.rolls.History(r.Context(), mux.Vars(r)["id"], limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}
