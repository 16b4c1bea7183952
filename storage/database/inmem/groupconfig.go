package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/studio/core"
	"github.com/trezcool/studio/core/groupconfig"
)

type groupConfigRepository struct {
	db *groupConfigTable
}

func NewGroupConfigRepository(db *DB) groupconfig.Repository {
	return &groupConfigRepository{db: db.groupConfig}
}

func (repo *groupConfigRepository) QueryConfigurations(
	_ context.Context,
	courseKey string,
	ordering ...core.DBOrdering,
) ([]groupconfig.Configuration, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	cfgs := make([]groupconfig.Configuration, 0)
	for _, row := range repo.db.table {
		if row.courseKey == courseKey {
			cfgs = append(cfgs, *row.cfg.Clone())
		}
	}
	ordering = append(ordering, core.DBOrdering{Field: "id", Ascending: true})
	sort.SliceStable(cfgs, func(i, j int) bool {
		for _, ord := range ordering {
			if c := compare(cfgs[i], cfgs[j], ord.Field); c != 0 {
				return (c < 0) == ord.Ascending
			}
		}
		return false
	})
	return cfgs, nil
}

func (repo *groupConfigRepository) GetConfiguration(_ context.Context, courseKey string, id int) (groupconfig.Configuration, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if row, ok := repo.db.table[id]; ok && row.courseKey == courseKey {
		return *row.cfg.Clone(), nil
	}
	return groupconfig.Configuration{}, groupconfig.ErrNotFound
}

func (repo *groupConfigRepository) CreateConfiguration(
	_ context.Context,
	courseKey string,
	cfg groupconfig.Configuration,
) (groupconfig.Configuration, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pk++
	id := repo.db.pk
	stored := cfg.Clone()
	stored.ID = &id
	stored.ShowGroups = false
	stored.SetOriginalAttributes()
	repo.db.table[id] = &groupConfigRow{courseKey: courseKey, cfg: stored}
	return *stored.Clone(), nil
}

func (repo *groupConfigRepository) UpdateConfiguration(
	_ context.Context,
	courseKey string,
	cfg groupconfig.Configuration,
) (groupconfig.Configuration, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if cfg.ID == nil {
		return groupconfig.Configuration{}, groupconfig.ErrNotFound
	}
	row, ok := repo.db.table[*cfg.ID]
	if !ok || row.courseKey != courseKey {
		return groupconfig.Configuration{}, groupconfig.ErrNotFound
	}
	stored := cfg.Clone()
	stored.ShowGroups = false
	stored.SetOriginalAttributes()
	row.cfg = stored
	return *stored.Clone(), nil
}

func (repo *groupConfigRepository) DeleteConfiguration(_ context.Context, courseKey string, id int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if row, ok := repo.db.table[id]; !ok || row.courseKey != courseKey {
		return groupconfig.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func compare(a, b groupconfig.Configuration, field string) int {
	switch field {
	case "name":
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "id":
		return *a.ID - *b.ID
	}
	return 0
}
