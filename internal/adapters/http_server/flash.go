package httpserver

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"workshop_finder/internal/app"
)

// FlashAlerter keeps the latest alert until the page shows it.
type FlashAlerter struct {
	mu  sync.Mutex
	msg string
}

func (f *FlashAlerter) Alert(_ context.Context, err error) {
	log.Error().Err(err).Msg("alert")
	f.mu.Lock()
	f.msg = app.AlertMessage(err)
	f.mu.Unlock()
}

// Take returns the pending message and clears it.
func (f *FlashAlerter) Take() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.msg
	f.msg = ""
	return m
}
