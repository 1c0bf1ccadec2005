package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgnsrekt/tonetts/internal/convert"
	"github.com/dgnsrekt/tonetts/internal/language"
	"github.com/dgnsrekt/tonetts/internal/tone"
)

const maxRequestBody = 1 << 20

type toneJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type languageJSON struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	SelfName string `json:"self_name"`
}

type convertRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Tone     string `json:"tone"`
}

type convertResponse struct {
	ID           string `json:"id"`
	Tone         string `json:"tone"`
	Language     string `json:"language"`
	ModifiedText string `json:"modified_text"`
	AudioURL     string `json:"audio_url"`
	DownloadURL  string `json:"download_url"`
	CacheHit     bool   `json:"cache_hit"`
}

type errorResponse struct {
	Error      string   `json:"error"`
	Available  []string `json:"available,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) apiTones(w http.ResponseWriter, _ *http.Request) {
	tones := make([]toneJSON, 0, len(tone.All()))
	for _, t := range tone.All() {
		tones = append(tones, toneJSON{Name: t.String(), Description: t.Description()})
	}
	writeJSON(w, http.StatusOK, tones)
}

func (s *Server) apiLanguages(w http.ResponseWriter, _ *http.Request) {
	langs := make([]languageJSON, 0, len(language.All()))
	for _, l := range language.All() {
		langs = append(langs, languageJSON{Name: l.Name, Code: l.Code, SelfName: l.SelfName()})
	}
	writeJSON(w, http.StatusOK, langs)
}

func (s *Server) apiConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	res, err := s.convert(r.Context(), convert.Request{Text: req.Text, Language: req.Language, Tone: req.Tone})
	if err != nil {
		resp := errorResponse{Error: convert.UserMessage(err)}
		var ite *tone.InvalidToneError
		if errors.As(err, &ite) {
			resp.Available = ite.Available()
			resp.Suggestion = ite.Suggestion
		}
		writeJSON(w, statusFor(err), resp)
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		ID:           res.ID,
		Tone:         res.Tone.String(),
		Language:     res.Language.Code,
		ModifiedText: res.Modified,
		AudioURL:     audioURL(res),
		DownloadURL:  downloadURL(res),
		CacheHit:     res.CacheHit,
	})
}
