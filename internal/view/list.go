package view

import (
	"io"
	"sync"
	"text/template"

	"workshop_finder/internal/domain"
)

type ReviewLine struct {
	Stars string
	Text  string
}

// Item is one rendered workshop row.
type Item struct {
	ID            domain.WorkshopID
	Name          string
	Address       string
	Distance      string
	Rating        string
	ReviewCount   string
	Reviews       []ReviewLine
	DirectionsURL string
}

func NewItem(user domain.Coords, w domain.Workshop) Item {
	name := w.Name
	if name == "" {
		name = "Unknown"
	}
	it := Item{
		ID:            w.ID,
		Name:          name,
		Address:       w.Address,
		Distance:      FormatDistance(domain.DistanceKm(user, w.Coords())),
		Rating:        FormatRating(w.Rating),
		ReviewCount:   ReviewCount(w.TotalReviews),
		DirectionsURL: DirectionsURL(user, w.Coords()),
	}
	for _, r := range w.Reviews {
		it.Reviews = append(it.Reviews, ReviewLine{Stars: Stars(r.Rating), Text: r.Text})
	}
	return it
}

// List holds the currently rendered workshop rows. Every Replace discards the previous rows.
type List struct {
	mu    sync.RWMutex
	items []Item
}

func NewList() *List { return &List{} }

func (l *List) Replace(user domain.Coords, ws []domain.Workshop) {
	items := make([]Item, 0, len(ws))
	for _, w := range ws {
		items = append(items, NewItem(user, w))
	}
	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
}

func (l *List) Items() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) Find(id domain.WorkshopID) (Item, bool) {
	for _, it := range l.Items() {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

var textTmpl = template.Must(template.New("list").Parse(`{{if not .}}No workshops found nearby.
{{end}}{{range .}}[{{.ID}}] {{.Name}}
    {{if .Address}}{{.Address}}
    {{end}}Distance: {{.Distance}}
    Rating: {{.Rating}} ({{.ReviewCount}})
{{range .Reviews}}    {{.Stars}} {{.Text}}
{{end}}    Directions: {{.DirectionsURL}}

{{end}}`))

// WriteText renders the current rows for a terminal.
func (l *List) WriteText(w io.Writer) error {
	return textTmpl.Execute(w, l.Items())
}
