package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/studio/core/xblock"
)

type blockStore struct {
	db *blockTable
}

func NewBlockStore(db *DB) xblock.Store {
	return &blockStore{db: db.block}
}

func (store *blockStore) GetBlock(_ context.Context, locator string) (xblock.Block, error) {
	store.db.mutex.RLock()
	defer store.db.mutex.RUnlock()

	if block, ok := store.db.table[locator]; ok {
		return copyBlock(*block), nil
	}
	return xblock.Block{}, xblock.ErrNotFound
}

func (store *blockStore) ChildBlocks(_ context.Context, parent string) ([]xblock.Block, error) {
	store.db.mutex.RLock()
	defer store.db.mutex.RUnlock()

	children := make([]xblock.Block, 0)
	for _, block := range store.db.table {
		if block.Parent == parent {
			children = append(children, copyBlock(*block))
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Locator < children[j].Locator })
	return children, nil
}

func (store *blockStore) CreateBlock(_ context.Context, block xblock.Block) (xblock.Block, error) {
	store.db.mutex.Lock()
	defer store.db.mutex.Unlock()

	stored := copyBlock(block)
	store.db.table[block.Locator] = &stored
	return copyBlock(stored), nil
}

func (store *blockStore) UpdateBlock(_ context.Context, block xblock.Block) (xblock.Block, error) {
	store.db.mutex.Lock()
	defer store.db.mutex.Unlock()

	if _, ok := store.db.table[block.Locator]; !ok {
		return xblock.Block{}, xblock.ErrNotFound
	}
	stored := copyBlock(block)
	store.db.table[block.Locator] = &stored
	return copyBlock(stored), nil
}

// DeleteBlock deletes the block and all of its descendants.
func (store *blockStore) DeleteBlock(_ context.Context, locator string) error {
	store.db.mutex.Lock()
	defer store.db.mutex.Unlock()

	if _, ok := store.db.table[locator]; !ok {
		return xblock.ErrNotFound
	}
	doomed := []string{locator}
	for len(doomed) > 0 {
		curr := doomed[0]
		doomed = doomed[1:]
		delete(store.db.table, curr)
		for loc, block := range store.db.table {
			if block.Parent == curr {
				doomed = append(doomed, loc)
			}
		}
	}
	return nil
}

func copyBlock(block xblock.Block) xblock.Block {
	if block.Live != nil {
		live := *block.Live
		block.Live = &live
	}
	return block
}
