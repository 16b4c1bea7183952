package views

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/studio/core"
	"github.com/trezcool/studio/core/groupconfig"
)

// GroupConfigClient is the part of the API client the group configuration editor uses.
type GroupConfigClient interface {
	GetGroupConfiguration(ctx context.Context, courseKey string, id int) (*groupconfig.Configuration, error)
	SaveGroupConfiguration(ctx context.Context, courseKey string, cfg *groupconfig.Configuration) (*groupconfig.Configuration, error)
}

// GroupConfigurationEditor edits one group configuration of a course.
type GroupConfigurationEditor struct {
	courseKey string
	cfg       *groupconfig.Configuration
	client    GroupConfigClient
	validate  *validator.Validate
	logger    core.Logger
}

// NewGroupConfigurationEditor edits cfg; a nil cfg starts a new, empty configuration.
func NewGroupConfigurationEditor(
	courseKey string,
	cfg *groupconfig.Configuration,
	client GroupConfigClient,
	validate *validator.Validate,
	logger core.Logger,
) *GroupConfigurationEditor {
	if cfg == nil {
		cfg = groupconfig.NewConfiguration("", "")
	}
	return &GroupConfigurationEditor{
		courseKey: courseKey,
		cfg:       cfg,
		client:    client,
		validate:  validate,
		logger:    logger,
	}
}

// LoadGroupConfigurationEditor fetches a configuration and opens it for editing.
func LoadGroupConfigurationEditor(
	ctx context.Context,
	courseKey string,
	id int,
	client GroupConfigClient,
	validate *validator.Validate,
	logger core.Logger,
) (*GroupConfigurationEditor, error) {
	cfg, err := client.GetGroupConfiguration(ctx, courseKey, id)
	if err != nil {
		return nil, errors.Wrapf(err, "loading group configuration %d", id)
	}
	return NewGroupConfigurationEditor(courseKey, cfg, client, validate, logger), nil
}

// Configuration is the configuration being edited.
func (e *GroupConfigurationEditor) Configuration() *groupconfig.Configuration {
	return e.cfg
}

func (e *GroupConfigurationEditor) IsDirty() bool {
	return e.cfg.IsDirty()
}

// Save validates the configuration, then creates or updates it on the server.
// On success the editor holds the server's version as its new original state;
// a validation failure is returned as a *core.ValidationError and nothing is sent.
func (e *GroupConfigurationEditor) Save(ctx context.Context) error {
	if err := e.cfg.Validate(e.validate); err != nil {
		return err
	}
	changes, err := e.cfg.Changes()
	switch {
	case err != nil:
		e.logger.Warn("diffing group configuration", errors.Wrap(err, "diffing group configuration"), map[string]interface{}{"course": e.courseKey})
	case changes != "":
		e.logger.Debug("saving group configuration", map[string]interface{}{"course": e.courseKey, "changes": changes})
	}

	saved, err := e.client.SaveGroupConfiguration(ctx, e.courseKey, e.cfg)
	if err != nil {
		return errors.Wrap(err, "saving group configuration")
	}
	saved.ShowGroups = e.cfg.ShowGroups
	saved.SetOriginalAttributes()
	e.cfg = saved
	return nil
}

// Cancel discards the unsaved edits.
func (e *GroupConfigurationEditor) Cancel() error {
	return e.cfg.Reset()
}
