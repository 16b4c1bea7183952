package views

import (
	"sync"

	"github.com/trezcool/studio/core/xblock"
)

var previewWatched = []string{xblock.AttrHasChanges, xblock.AttrPublished}

// ActionState is the disabled state of the unit's two preview buttons.
type ActionState struct {
	ViewLiveDisabled bool
	PreviewDisabled  bool
}

// PreviewActionController toggles the "View Live" and "Preview" buttons of a unit.
type PreviewActionController struct {
	*StateListener

	mu    sync.RWMutex
	state ActionState
}

func NewPreviewActionController(record *xblock.Record) *PreviewActionController {
	ctrl := new(PreviewActionController)
	ctrl.StateListener = newStateListener(record, previewWatched, ctrl.render)
	_ = ctrl.Render()
	return ctrl
}

func (ctrl *PreviewActionController) render(info xblock.Info) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	ctrl.state = ActionState{
		ViewLiveDisabled: !info.Published,
		PreviewDisabled:  !(info.HasChanges || !info.Published),
	}
	return nil
}

func (ctrl *PreviewActionController) State() ActionState {
	ctrl.mu.RLock()
	defer ctrl.mu.RUnlock()
	return ctrl.state
}
