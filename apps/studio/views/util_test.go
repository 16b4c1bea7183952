package views

import (
	"context"
	"errors"
	"sync"

	"github.com/trezcool/studio/core/groupconfig"
	"github.com/trezcool/studio/core/xblock"
)

var errOffline = errors.New("offline")

// fakeXBlockClient serves one block and records the update requests it receives.
type fakeXBlockClient struct {
	mu         sync.Mutex
	info       xblock.Info
	updates    []xblock.UpdateRequest
	fetches    int
	failUpdate bool
	failFetch  bool
	// onUpdate, when set, turns an update request into the new server state.
	onUpdate func(info xblock.Info, req xblock.UpdateRequest) xblock.Info
}

func (c *fakeXBlockClient) GetXBlock(_ context.Context, _ string) (xblock.Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetches++
	if c.failFetch {
		return xblock.Info{}, errOffline
	}
	return c.info, nil
}

func (c *fakeXBlockClient) UpdateXBlock(_ context.Context, _ string, req xblock.UpdateRequest) (xblock.Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, req)
	if c.failUpdate {
		return xblock.Info{}, errOffline
	}
	if c.onUpdate != nil {
		c.info = c.onUpdate(c.info, req)
	}
	return c.info, nil
}

type fakePrompt struct {
	confirm   bool
	confirmed []string // titles
	notified  []string
	hidden    int
}

func (p *fakePrompt) Confirm(title, _, _ string) bool {
	p.confirmed = append(p.confirmed, title)
	return p.confirm
}

func (p *fakePrompt) Notify(message string) func() {
	p.notified = append(p.notified, message)
	return func() { p.hidden++ }
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// recLogger records messages by level.
type recLogger struct {
	nopLogger
	debug []string
	warn  []string
}

func (l *recLogger) Debug(msg string, _ ...interface{}) { l.debug = append(l.debug, msg) }
func (l *recLogger) Warn(msg string, _ ...interface{})  { l.warn = append(l.warn, msg) }

type fakeGroupConfigClient struct {
	stored map[int]*groupconfig.Configuration
	saves  int
	nextID int
	fail   bool
}

func newFakeGroupConfigClient(cfgs ...*groupconfig.Configuration) *fakeGroupConfigClient {
	c := &fakeGroupConfigClient{stored: make(map[int]*groupconfig.Configuration), nextID: 1}
	for _, cfg := range cfgs {
		id := c.nextID
		c.nextID++
		cfg = cfg.Clone()
		cfg.ID = &id
		c.stored[id] = cfg
	}
	return c
}

func (c *fakeGroupConfigClient) GetGroupConfiguration(_ context.Context, _ string, id int) (*groupconfig.Configuration, error) {
	cfg, ok := c.stored[id]
	if !ok {
		return nil, groupconfig.ErrNotFound
	}
	return groupconfig.FromWire(cfg.ToJSON()), nil
}

func (c *fakeGroupConfigClient) SaveGroupConfiguration(
	_ context.Context,
	_ string,
	cfg *groupconfig.Configuration,
) (*groupconfig.Configuration, error) {
	c.saves++
	if c.fail {
		return nil, errOffline
	}
	saved := groupconfig.FromWire(cfg.ToJSON())
	if saved.ID == nil {
		id := c.nextID
		c.nextID++
		saved.ID = &id
	}
	for i := range saved.Groups {
		if saved.Groups[i].ID == nil {
			id, version := i, 1
			saved.Groups[i].ID = &id
			saved.Groups[i].Version = &version
		}
	}
	c.stored[*saved.ID] = saved.Clone()
	return saved, nil
}
