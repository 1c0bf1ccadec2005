package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgnsrekt/tonetts/internal/convert"
	"github.com/dgnsrekt/tonetts/internal/language"
	"github.com/dgnsrekt/tonetts/internal/store"
	"github.com/dgnsrekt/tonetts/internal/synth"
	"github.com/dgnsrekt/tonetts/internal/tone"
)

type option struct {
	Name        string
	Description string
	Selected    bool
}

type resultView struct {
	Tone        string
	Modified    string
	AudioURL    string
	DownloadURL string
}

type pageData struct {
	Text      string
	Languages []option
	Tones     []option
	Warning   string
	Error     string
	Result    *resultView
}

func newPageData(text, lang, toneName string) *pageData {
	page := &pageData{Text: text}

	selectedLang := language.Default().Name
	if l, err := language.Lookup(lang); err == nil {
		selectedLang = l.Name
	}
	for _, l := range language.All() {
		page.Languages = append(page.Languages, option{Name: l.Name, Selected: l.Name == selectedLang})
	}

	selectedTone := tone.Normal
	if t, err := tone.Parse(toneName); err == nil {
		selectedTone = t
	}
	for _, t := range tone.All() {
		page.Tones = append(page.Tones, option{
			Name:        t.String(),
			Description: t.Description(),
			Selected:    t == selectedTone,
		})
	}
	return page
}

func (s *Server) render(w http.ResponseWriter, status int, page *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := html.ExecuteTemplate(w, "index.html", page); err != nil {
		s.logger.Error("render form", "err", err)
	}
}

func (s *Server) formPage(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, newPageData("", "", ""))
}

func (s *Server) formSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form: "+err.Error(), http.StatusBadRequest)
		return
	}
	req := convert.Request{
		Text:     r.PostForm.Get("text"),
		Language: r.PostForm.Get("language"),
		Tone:     r.PostForm.Get("tone"),
	}
	page := newPageData(req.Text, req.Language, req.Tone)

	res, err := s.convert(r.Context(), req)
	switch {
	case err == nil:
		page.Result = &resultView{
			Tone:        res.Tone.String(),
			Modified:    res.Modified,
			AudioURL:    audioURL(res),
			DownloadURL: downloadURL(res),
		}
		s.render(w, http.StatusOK, page)
	case convert.IsWarning(err):
		page.Warning = convert.UserMessage(err)
		s.render(w, http.StatusOK, page)
	default:
		page.Error = convert.UserMessage(err)
		s.render(w, statusFor(err), page)
	}
}

func (s *Server) convert(ctx context.Context, req convert.Request) (*convert.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return s.conv.Convert(ctx, req)
}

// serveAudio streams a stored file, inline or as a download named after
// its tone.
func (s *Server) serveAudio(attachment bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		f, err := s.store.Open(name)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrInvalidName):
				http.Error(w, "invalid audio name", http.StatusBadRequest)
			case errors.Is(err, store.ErrNotFound):
				http.NotFound(w, r)
			default:
				s.logger.Error("open audio", "name", name, "err", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "audio/mpeg")
		if attachment {
			t := toneFromName(name)
			if q, err := tone.Parse(r.URL.Query().Get("tone")); err == nil {
				t = q
			}
			w.Header().Set("Content-Disposition", `attachment; filename="`+store.DownloadName(t)+`"`)
		}
		http.ServeContent(w, r, name, info.ModTime(), f)
	}
}

// toneFromName reads the tone back out of a stored file name.
func toneFromName(name string) tone.Tone {
	rest, ok := strings.CutPrefix(name, "speech_")
	if !ok {
		return tone.Normal
	}
	toneName, _, _ := strings.Cut(rest, "_")
	t, err := tone.Parse(toneName)
	if err != nil {
		return tone.Normal
	}
	return t
}

func audioURL(res *convert.Result) string {
	return "/audio/" + url.PathEscape(res.FileName)
}

func downloadURL(res *convert.Result) string {
	return "/download/" + url.PathEscape(res.FileName) + "?tone=" + url.QueryEscape(res.Tone.String())
}

// statusFor maps conversion errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, convert.ErrEmptyInput),
		errors.Is(err, tone.ErrInvalidTone),
		errors.Is(err, language.ErrUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, synth.ErrSynthesisFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
