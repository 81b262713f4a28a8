// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"workshop_finder/internal/app"
	"workshop_finder/internal/domain"
	"workshop_finder/internal/view"
)

//go:embed page.html
var pageHTML string

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

// Handlers serve the local finder page on top of a Controller and its views.
type Handlers struct {
	Ctl   *app.Controller
	List  *view.List
	Map   *view.MarkerLayer
	Flash *FlashAlerter
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", h.page)
	s.mux.Get("/markers", h.markers)
	s.mux.Post("/locate", h.locate)
	s.mux.Post("/reviews", h.submitReview)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// etagOf returns a weak ETag for an already marshalled body.
func etagOf(b []byte) string {
	sum := sha1.Sum(b)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}

type pageData struct {
	Alert    string
	Location *domain.Location
	Items    []view.Item
	Stars    []int
}

func (h *Handlers) page(w http.ResponseWriter, r *http.Request) {
	d := pageData{
		Alert: h.Flash.Take(),
		Items: h.List.Items(),
		Stars: []int{5, 4, 3, 2, 1},
	}
	if loc, ok := h.Ctl.Current(); ok {
		d.Location = &loc
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTmpl.Execute(w, d); err != nil {
		log.Error().Err(err).Msg("render page failed")
	}
}

func (h *Handlers) markers(w http.ResponseWriter, r *http.Request) {
	body, err := h.Map.GeoJSON()
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "markers could not be encoded")
		return
	}
	etag := etagOf(body)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write markers body")
	}
}

func (h *Handlers) locate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid form", err.Error())
		return
	}
	req := app.LocateRequest{
		Mode:     app.LocateMode(r.PostForm.Get("mode")),
		Postcode: r.PostForm.Get("postcode"),
		Place:    r.PostForm.Get("place"),
	}
	switch req.Mode {
	case app.LocateGeolocation, app.LocatePostcode, app.LocatePlace:
	case app.LocateManual:
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(r.PostForm.Get("lat")), 64)
		lon, err2 := strconv.ParseFloat(strings.TrimSpace(r.PostForm.Get("lon")), 64)
		if err1 != nil || err2 != nil {
			h.Flash.Alert(r.Context(), domain.ErrInvalidCoords)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		req.Lat, req.Lon = lat, lon
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid mode", "mode must be one of geolocate, postcode, place, manual")
		return
	}

	// failures are already alerted; the page shows them after the redirect
	_ = h.Ctl.Locate(r.Context(), req)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid form", err.Error())
		return
	}
	// a missing or garbled rating is "no star selected"
	rating, _ := strconv.Atoi(r.PostForm.Get("rating"))
	s := domain.ReviewSubmission{
		WorkshopID: domain.WorkshopID(r.PostForm.Get("workshop_id")),
		Rating:     rating,
		Review:     r.PostForm.Get("review"),
	}
	if s.WorkshopID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid form", "workshop_id is required")
		return
	}
	_ = h.Ctl.SubmitReview(r.Context(), s)
	http.Redirect(w, r, "/#workshop-"+template.URLQueryEscaper(string(s.WorkshopID)), http.StatusSeeOther)
}
