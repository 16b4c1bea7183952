package views

import (
	"html/template"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studio/core/xblock"
)

var historyWatched = []string{xblock.AttrPublished, xblock.AttrPublishedOn, xblock.AttrPublishedBy}

// PublishHistory renders when and by whom a unit was last published.
type PublishHistory struct {
	*StateListener

	mu   sync.RWMutex
	html template.HTML
}

func NewPublishHistory(record *xblock.Record) *PublishHistory {
	h := new(PublishHistory)
	h.StateListener = newStateListener(record, historyWatched, h.render)
	_ = h.Render()
	return h
}

func (h *PublishHistory) render(info xblock.Info) error {
	html, err := renderTemplate("publish_history", struct {
		Published   bool
		PublishedOn *time.Time
		PublishedBy string
	}{info.Published, info.PublishedOn, deref(info.PublishedBy)})
	if err != nil {
		return errors.Wrap(err, "rendering publish history")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.html = html
	return nil
}

func (h *PublishHistory) HTML() template.HTML {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.html
}
