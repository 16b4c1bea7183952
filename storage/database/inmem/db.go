package inmemdb

import (
	"sync"

	"github.com/trezcool/studio/core/groupconfig"
	"github.com/trezcool/studio/core/xblock"
)

type (
	DB struct {
		groupConfig *groupConfigTable
		block       *blockTable
	}

	groupConfigTable struct {
		mutex sync.RWMutex
		pk    int
		table map[int]*groupConfigRow
	}

	groupConfigRow struct {
		courseKey string
		cfg       *groupconfig.Configuration
	}

	blockTable struct {
		mutex sync.RWMutex
		table map[string]*xblock.Block
	}
)

func Open() *DB {
	return &DB{
		groupConfig: &groupConfigTable{table: make(map[int]*groupConfigRow)},
		block:       &blockTable{table: make(map[string]*xblock.Block)},
	}
}
