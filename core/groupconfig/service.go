package groupconfig

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/studio/core"
)

const defaultGroupVersion = 1

var (
	// errors
	ErrNotFound = errors.New("group configuration not found")

	// OrderingFields are the fields configurations can be ordered by.
	OrderingFields = map[string]bool{"id": true, "name": true}
)

type (
	Repository interface {
		// QueryConfigurations returns the configurations of a course, by ascending ID unless ordered otherwise.
		QueryConfigurations(ctx context.Context, courseKey string, ordering ...core.DBOrdering) ([]Configuration, error)
		GetConfiguration(ctx context.Context, courseKey string, id int) (Configuration, error)
		CreateConfiguration(ctx context.Context, courseKey string, cfg Configuration) (Configuration, error)
		UpdateConfiguration(ctx context.Context, courseKey string, cfg Configuration) (Configuration, error)
		DeleteConfiguration(ctx context.Context, courseKey string, id int) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Query(ctx context.Context, courseKey string, ordering ...core.DBOrdering) ([]Configuration, error) {
	valid := make([]core.DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		if OrderingFields[ord.Field] {
			valid = append(valid, ord)
		}
	}
	return svc.repo.QueryConfigurations(ctx, courseKey, valid...)
}

func (svc *Service) Get(ctx context.Context, courseKey string, id int) (Configuration, error) {
	return svc.repo.GetConfiguration(ctx, courseKey, id)
}

func (svc *Service) Create(ctx context.Context, courseKey string, cfg Configuration) (Configuration, error) {
	cfg = *cfg.Clone()
	cfg.ID = nil
	if err := svc.prepare(&cfg); err != nil {
		return Configuration{}, err
	}
	return svc.repo.CreateConfiguration(ctx, courseKey, cfg)
}

func (svc *Service) Update(ctx context.Context, courseKey string, id int, cfg Configuration) (Configuration, error) {
	cfg = *cfg.Clone()
	cfg.ID = intPtr(id)
	if err := svc.prepare(&cfg); err != nil {
		return Configuration{}, err
	}
	return svc.repo.UpdateConfiguration(ctx, courseKey, cfg)
}

func (svc *Service) Delete(ctx context.Context, courseKey string, id int) error {
	return svc.repo.DeleteConfiguration(ctx, courseKey, id)
}

// prepare cleans and validates cfg, then gives every new group an ID and a version.
func (svc *Service) prepare(cfg *Configuration) error {
	cfg.Clean()
	if err := cfg.Validate(svc.validate); err != nil {
		return err
	}

	nextID := 0
	for _, g := range cfg.Groups {
		if g.ID != nil && *g.ID >= nextID {
			nextID = *g.ID + 1
		}
	}
	for i := range cfg.Groups {
		if cfg.Groups[i].ID == nil {
			cfg.Groups[i].ID = intPtr(nextID)
			nextID++
		}
		if cfg.Groups[i].Version == nil {
			cfg.Groups[i].Version = intPtr(defaultGroupVersion)
		}
	}
	return nil
}
