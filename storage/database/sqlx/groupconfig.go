package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studio/core"
	"github.com/trezcool/studio/core/groupconfig"
)

const groupConfigColumns = "id, course_key, name, description, groups"

// groupsColumn stores a configuration's groups as jsonb.
type groupsColumn []groupconfig.Group

// Value returns a string: lib/pq sends []byte as bytea.
func (col groupsColumn) Value() (driver.Value, error) {
	if col == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]groupconfig.Group(col))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (col *groupsColumn) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*col = groupsColumn{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported groups column type %T", src)
	}
	return json.Unmarshal(data, (*[]groupconfig.Group)(col))
}

type groupConfigRow struct {
	ID          int          `db:"id"`
	CourseKey   string       `db:"course_key"`
	Name        string       `db:"name"`
	Description string       `db:"description"`
	Groups      groupsColumn `db:"groups"`
}

func (row groupConfigRow) configuration() groupconfig.Configuration {
	id := row.ID
	return *groupconfig.FromWire(groupconfig.Wire{
		ID:             &id,
		TabTitle:       row.Name,
		TabDescription: row.Description,
		Groups:         row.Groups,
	})
}

type groupConfigRepository struct {
	db *sqlx.DB
}

func NewGroupConfigRepository(db *sqlx.DB) groupconfig.Repository {
	return &groupConfigRepository{db: db}
}

func (repo *groupConfigRepository) QueryConfigurations(
	ctx context.Context,
	courseKey string,
	ordering ...core.DBOrdering,
) ([]groupconfig.Configuration, error) {
	orderBy := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		if groupconfig.OrderingFields[ord.Field] {
			orderBy = append(orderBy, ord.String())
		}
	}
	orderBy = append(orderBy, "id ASC")

	q := "SELECT " + groupConfigColumns + " FROM group_configurations WHERE course_key = $1 ORDER BY " + strings.Join(orderBy, ", ")
	var rows []groupConfigRow
	if err := repo.db.SelectContext(ctx, &rows, q, courseKey); err != nil {
		return nil, errors.Wrap(err, "querying group configurations")
	}

	cfgs := make([]groupconfig.Configuration, 0, len(rows))
	for _, row := range rows {
		cfgs = append(cfgs, row.configuration())
	}
	return cfgs, nil
}

func (repo *groupConfigRepository) GetConfiguration(ctx context.Context, courseKey string, id int) (groupconfig.Configuration, error) {
	var row groupConfigRow
	q := "SELECT " + groupConfigColumns + " FROM group_configurations WHERE id = $1 AND course_key = $2"
	if err := repo.db.GetContext(ctx, &row, q, id, courseKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return groupconfig.Configuration{}, groupconfig.ErrNotFound
		}
		return groupconfig.Configuration{}, errors.Wrap(err, "getting group configuration")
	}
	return row.configuration(), nil
}

func (repo *groupConfigRepository) CreateConfiguration(
	ctx context.Context,
	courseKey string,
	cfg groupconfig.Configuration,
) (groupconfig.Configuration, error) {
	row := groupConfigRow{
		CourseKey:   courseKey,
		Name:        cfg.Name,
		Description: cfg.Description,
		Groups:      cfg.Groups,
	}
	q := `INSERT INTO group_configurations (course_key, name, description, groups)
		VALUES (:course_key, :name, :description, :groups) RETURNING id`
	query, args, err := repo.db.BindNamed(q, row)
	if err != nil {
		return groupconfig.Configuration{}, errors.Wrap(err, "binding group configuration insert")
	}
	if err = repo.db.GetContext(ctx, &row.ID, query, args...); err != nil {
		return groupconfig.Configuration{}, errors.Wrap(err, "creating group configuration")
	}
	return row.configuration(), nil
}

func (repo *groupConfigRepository) UpdateConfiguration(
	ctx context.Context,
	courseKey string,
	cfg groupconfig.Configuration,
) (groupconfig.Configuration, error) {
	if cfg.ID == nil {
		return groupconfig.Configuration{}, groupconfig.ErrNotFound
	}
	row := groupConfigRow{
		ID:          *cfg.ID,
		CourseKey:   courseKey,
		Name:        cfg.Name,
		Description: cfg.Description,
		Groups:      cfg.Groups,
	}
	q := `UPDATE group_configurations SET name = :name, description = :description, groups = :groups
		WHERE id = :id AND course_key = :course_key`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return groupconfig.Configuration{}, errors.Wrap(err, "updating group configuration")
	}
	if err = checkAffected(res, groupconfig.ErrNotFound); err != nil {
		return groupconfig.Configuration{}, err
	}
	return row.configuration(), nil
}

func (repo *groupConfigRepository) DeleteConfiguration(ctx context.Context, courseKey string, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM group_configurations WHERE id = $1 AND course_key = $2", id, courseKey)
	if err != nil {
		return errors.Wrap(err, "deleting group configuration")
	}
	return checkAffected(res, groupconfig.ErrNotFound)
}

// checkAffected returns notFound when res affected no row.
func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "checking affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
