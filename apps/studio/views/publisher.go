package views

import (
	"context"
	"html/template"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studio/core"
	"github.com/trezcool/studio/core/xblock"
)

var publisherWatched = []string{
	xblock.AttrHasChanges,
	xblock.AttrPublished,
	xblock.AttrEditedOn,
	xblock.AttrEditedBy,
	xblock.AttrVisibleToStaffOnly,
}

// Publish states, as displayed.
const (
	titleStaffOnly      = "Visible to Staff Only"
	titleLive           = "Published and Live"
	titleReady          = "Published (not yet released)"
	titleDraftChanges   = "Draft (Unpublished changes)"
	titleNeverPublished = "Draft (Never published)"
)

type (
	// XBlockClient is the part of the API client the unit views use.
	XBlockClient interface {
		GetXBlock(ctx context.Context, locator string) (xblock.Info, error)
		UpdateXBlock(ctx context.Context, locator string, req xblock.UpdateRequest) (xblock.Info, error)
	}

	// Prompt is the user interaction the views need from the page.
	Prompt interface {
		// Confirm asks the user to confirm an operation; false cancels it.
		Confirm(title, message, action string) bool
		// Notify shows an in-progress message until hide is called.
		Notify(message string) (hide func())
	}
)

type publisherData struct {
	Class           string
	Title           string
	HasChanges      bool
	EditedOn        *time.Time
	EditedBy        string
	PublishedOn     *time.Time
	PublishedBy     string
	Released        bool
	ReleaseLabel    string
	ReleaseDate     *time.Time
	ReleaseDateFrom string
	StaffLock       bool
	PublishDisabled bool
	DiscardDisabled bool
}

func newPublisherData(info xblock.Info) publisherData {
	data := publisherData{
		HasChanges:      info.HasChanges,
		EditedOn:        info.EditedOn,
		EditedBy:        deref(info.EditedBy),
		PublishedOn:     info.PublishedOn,
		PublishedBy:     deref(info.PublishedBy),
		Released:        info.ReleasedToStudents,
		ReleaseDate:     info.ReleaseDate,
		ReleaseDateFrom: deref(info.ReleaseDateFrom),
		StaffLock:       info.VisibleToStaffOnly,
		PublishDisabled: info.Published && !info.HasChanges,
		DiscardDisabled: !info.Published || !info.HasChanges,
	}

	switch {
	case info.VisibleToStaffOnly:
		data.Class, data.Title = "is-staff-only", titleStaffOnly
	case info.Published && !info.HasChanges && info.ReleasedToStudents:
		data.Class, data.Title = "is-live", titleLive
	case info.Published && !info.HasChanges:
		data.Class, data.Title = "is-ready", titleReady
	case info.Published:
		data.Class, data.Title = "has-warnings", titleDraftChanges
	default:
		data.Class, data.Title = "is-draft", titleNeverPublished
	}

	switch {
	case info.ReleasedToStudents:
		data.ReleaseLabel = "Released:"
	case info.ReleaseDate != nil:
		data.ReleaseLabel = "Scheduled:"
	default:
		data.ReleaseLabel = "Release:"
	}
	return data
}

// Publisher renders the publish controls of a unit and runs its publish, discard and staff lock actions.
// Actions are expected one at a time.
type Publisher struct {
	*StateListener

	record *xblock.Record
	client XBlockClient
	prompt Prompt
	logger core.Logger

	mu        sync.RWMutex
	html      template.HTML
	title     string
	staffLock bool // checkbox state
}

func NewPublisher(record *xblock.Record, client XBlockClient, prompt Prompt, logger core.Logger) *Publisher {
	p := &Publisher{
		record: record,
		client: client,
		prompt: prompt,
		logger: logger,
	}
	p.StateListener = newStateListener(record, publisherWatched, p.render)
	_ = p.Render()
	return p
}

func (p *Publisher) render(info xblock.Info) error {
	data := newPublisherData(info)
	html, err := renderTemplate("publisher", data)
	if err != nil {
		return errors.Wrap(err, "rendering publisher")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.html = html
	p.title = data.Title
	p.staffLock = data.StaffLock
	return nil
}

func (p *Publisher) HTML() template.HTML {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.html
}

// Title is the displayed publish state.
func (p *Publisher) Title() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.title
}

// StaffLockChecked is the state of the "Hide from students" checkbox.
func (p *Publisher) StaffLockChecked() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.staffLock
}

func (p *Publisher) checkStaffLock(checked bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.staffLock = checked
}

// Publish publishes the unit's draft.
func (p *Publisher) Publish(ctx context.Context) error {
	defer p.prompt.Notify("Publishing…")()
	return p.runDirective(ctx, xblock.PublishMakePublic, nil)
}

// DiscardChanges reverts the unit to its last published version, once the user confirms.
func (p *Publisher) DiscardChanges(ctx context.Context) error {
	confirmed := p.prompt.Confirm(
		"Discard Changes",
		"Are you sure you want to revert to the last published version of the unit? You cannot undo this action.",
		"Discard Changes",
	)
	if !confirmed {
		return nil
	}
	defer p.prompt.Notify("Discarding Changes…")()
	return p.runDirective(ctx, xblock.PublishDiscardChanges, nil)
}

// ToggleStaffLock hides the unit from students, or makes it visible again once the user confirms.
// The checkbox is updated before the request completes and reverted when the update fails or is cancelled;
// once saved, it follows the record even if the refetch fails.
func (p *Publisher) ToggleStaffLock(ctx context.Context) error {
	enable := !p.record.Info().VisibleToStaffOnly
	p.checkStaffLock(enable)

	msg := "Hiding from Students…"
	if !enable {
		confirmed := p.prompt.Confirm(
			"Make Visible to Students",
			"If the unit was previously published and released to students, any changes you made to the unit "+
				"when it was hidden will now be visible to students. Do you want to proceed?",
			"Make Visible to Students",
		)
		if !confirmed {
			p.checkStaffLock(!enable)
			return nil
		}
		msg = "Making Visible to Students…"
	}

	// a null value removes the lock rather than setting it to false
	metadata := &xblock.Metadata{Unset: []string{xblock.AttrVisibleToStaffOnly}}
	if enable {
		metadata = &xblock.Metadata{VisibleToStaffOnly: &enable}
	}
	defer p.prompt.Notify(msg)()
	if err := p.update(ctx, xblock.PublishMakePublic, metadata); err != nil {
		p.checkStaffLock(!enable)
		return err
	}
	return p.refetch(ctx)
}

// runDirective saves the record with the given publish directive, then refetches it.
func (p *Publisher) runDirective(ctx context.Context, directive string, metadata *xblock.Metadata) error {
	if err := p.update(ctx, directive, metadata); err != nil {
		return err
	}
	return p.refetch(ctx)
}

// update sends the directive and synchronizes the record with the saved state.
func (p *Publisher) update(ctx context.Context, directive string, metadata *xblock.Metadata) error {
	locator := p.record.Locator()
	p.record.SetDirective(directive)
	info, err := p.client.UpdateXBlock(ctx, locator, xblock.UpdateRequest{Publish: p.record.Directive(), Metadata: metadata})
	p.record.SetDirective("")
	if err != nil {
		p.logger.Error("publisher: "+directive+" failed", err, map[string]interface{}{"locator": locator})
		return errors.Wrapf(err, "%s %s", directive, locator)
	}
	p.record.Set(info)
	return nil
}

func (p *Publisher) refetch(ctx context.Context) error {
	info, err := p.client.GetXBlock(ctx, p.record.Locator())
	if err != nil {
		return errors.Wrapf(err, "fetching %s", p.record.Locator())
	}
	p.record.Set(info)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
