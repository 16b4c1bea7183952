package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studio/core/xblock"
)

const blockColumns = "locator, category, parent, start, draft, live, edited_on, edited_by, published_on, published_by"

// fieldsColumn stores a version of a block's fields as jsonb; NULL when Fields is nil.
type fieldsColumn struct {
	Fields *xblock.Fields
}

type fieldsJSON struct {
	DisplayName        string `json:"display_name"`
	VisibleToStaffOnly bool   `json:"visible_to_staff_only"`
}

func (col fieldsColumn) Value() (driver.Value, error) {
	if col.Fields == nil {
		return nil, nil
	}
	data, err := json.Marshal(fieldsJSON(*col.Fields))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (col *fieldsColumn) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		col.Fields = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported fields column type %T", src)
	}
	var fj fieldsJSON
	if err := json.Unmarshal(data, &fj); err != nil {
		return err
	}
	fields := xblock.Fields(fj)
	col.Fields = &fields
	return nil
}

type blockRow struct {
	Locator     string       `db:"locator"`
	Category    string       `db:"category"`
	Parent      string       `db:"parent"`
	Start       *time.Time   `db:"start"`
	Draft       fieldsColumn `db:"draft"`
	Live        fieldsColumn `db:"live"`
	EditedOn    *time.Time   `db:"edited_on"`
	EditedBy    string       `db:"edited_by"`
	PublishedOn *time.Time   `db:"published_on"`
	PublishedBy string       `db:"published_by"`
}

func newBlockRow(block xblock.Block) blockRow {
	draft := block.Draft
	return blockRow{
		Locator:     block.Locator,
		Category:    block.Category,
		Parent:      block.Parent,
		Start:       nullTime(block.Start),
		Draft:       fieldsColumn{Fields: &draft},
		Live:        fieldsColumn{Fields: block.Live},
		EditedOn:    nullTime(block.EditedOn),
		EditedBy:    block.EditedBy,
		PublishedOn: nullTime(block.PublishedOn),
		PublishedBy: block.PublishedBy,
	}
}

func (row blockRow) block() xblock.Block {
	block := xblock.Block{
		Locator:     row.Locator,
		Category:    row.Category,
		Parent:      row.Parent,
		Start:       zeroTime(row.Start),
		EditedOn:    zeroTime(row.EditedOn),
		EditedBy:    row.EditedBy,
		PublishedOn: zeroTime(row.PublishedOn),
		PublishedBy: row.PublishedBy,
	}
	if row.Draft.Fields != nil {
		block.Draft = *row.Draft.Fields
	}
	if row.Live.Fields != nil {
		live := *row.Live.Fields
		block.Live = &live
	}
	return block
}

type blockStore struct {
	db *sqlx.DB
}

func NewBlockStore(db *sqlx.DB) xblock.Store {
	return &blockStore{db: db}
}

func (store *blockStore) GetBlock(ctx context.Context, locator string) (xblock.Block, error) {
	var row blockRow
	if err := store.db.GetContext(ctx, &row, "SELECT "+blockColumns+" FROM xblocks WHERE locator = $1", locator); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return xblock.Block{}, xblock.ErrNotFound
		}
		return xblock.Block{}, errors.Wrap(err, "getting xblock")
	}
	return row.block(), nil
}

func (store *blockStore) ChildBlocks(ctx context.Context, parent string) ([]xblock.Block, error) {
	var rows []blockRow
	q := "SELECT " + blockColumns + " FROM xblocks WHERE parent = $1 ORDER BY locator ASC"
	if err := store.db.SelectContext(ctx, &rows, q, parent); err != nil {
		return nil, errors.Wrap(err, "listing child xblocks")
	}
	children := make([]xblock.Block, 0, len(rows))
	for _, row := range rows {
		children = append(children, row.block())
	}
	return children, nil
}

func (store *blockStore) CreateBlock(ctx context.Context, block xblock.Block) (xblock.Block, error) {
	q := `INSERT INTO xblocks (` + blockColumns + `)
		VALUES (:locator, :category, :parent, :start, :draft, :live, :edited_on, :edited_by, :published_on, :published_by)`
	if _, err := store.db.NamedExecContext(ctx, q, newBlockRow(block)); err != nil {
		return xblock.Block{}, errors.Wrap(err, "creating xblock")
	}
	return block, nil
}

func (store *blockStore) UpdateBlock(ctx context.Context, block xblock.Block) (xblock.Block, error) {
	q := `UPDATE xblocks SET start = :start, draft = :draft, live = :live, edited_on = :edited_on,
		edited_by = :edited_by, published_on = :published_on, published_by = :published_by
		WHERE locator = :locator`
	res, err := store.db.NamedExecContext(ctx, q, newBlockRow(block))
	if err != nil {
		return xblock.Block{}, errors.Wrap(err, "updating xblock")
	}
	if err = checkAffected(res, xblock.ErrNotFound); err != nil {
		return xblock.Block{}, err
	}
	return block, nil
}

// DeleteBlock deletes the block and all of its descendants.
func (store *blockStore) DeleteBlock(ctx context.Context, locator string) error {
	q := `WITH RECURSIVE tree AS (
			SELECT locator FROM xblocks WHERE locator = $1
			UNION ALL
			SELECT x.locator FROM xblocks x JOIN tree t ON x.parent = t.locator
		)
		DELETE FROM xblocks WHERE locator IN (SELECT locator FROM tree)`
	res, err := store.db.ExecContext(ctx, q, locator)
	if err != nil {
		return errors.Wrap(err, "deleting xblock")
	}
	return checkAffected(res, xblock.ErrNotFound)
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

func zeroTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}
