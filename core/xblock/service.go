package xblock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trezcool/studio/core"
)

// maxAncestors bounds the release date lookup up the parent chain.
const maxAncestors = 32

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound       = errors.New("xblock not found")
	errNotPublished   = errors.New("there is no published version to revert to")
	errParentNotFound = errors.New("parent xblock not found")
	errSourceNotFound = errors.New("duplicate source xblock not found")
	errDuplicateInto  = errors.New("cannot duplicate an xblock into itself")
)

type (
	Store interface {
		GetBlock(ctx context.Context, locator string) (Block, error)
		// ChildBlocks returns the direct children of a block, ordered by locator.
		ChildBlocks(ctx context.Context, parent string) ([]Block, error)
		CreateBlock(ctx context.Context, block Block) (Block, error)
		UpdateBlock(ctx context.Context, block Block) (Block, error)
		DeleteBlock(ctx context.Context, locator string) error
	}

	Service struct {
		store    Store
		validate *validator.Validate
	}
)

func NewService(store Store, validate *validator.Validate) *Service {
	return &Service{store: store, validate: validate}
}

func (svc *Service) Get(ctx context.Context, locator string) (Info, error) {
	block, err := svc.store.GetBlock(ctx, locator)
	if err != nil {
		return Info{}, err
	}
	return svc.info(ctx, block)
}

// Create adds a new block under req.ParentLocator (a root block when empty).
// The block's name is a random hex string, so its locator is "<category>+block@<name>".
func (svc *Service) Create(ctx context.Context, req CreateRequest, editor string) (Info, error) {
	if req.DuplicateSourceLocator != "" {
		return svc.duplicate(ctx, req, editor)
	}
	req.Category = core.CleanString(req.Category, true /* lower */)
	req.DisplayName = core.CleanString(req.DisplayName)
	if err := svc.validate.Struct(req); err != nil {
		return Info{}, err
	}
	if req.ParentLocator != "" {
		if _, err := svc.store.GetBlock(ctx, req.ParentLocator); err != nil {
			if errors.Is(err, ErrNotFound) {
				return Info{}, core.NewValidationError(errParentNotFound, core.FieldError{Field: "parent_locator", Error: errParentNotFound.Error()})
			}
			return Info{}, err
		}
	}

	now := NowFunc().UTC()
	block := Block{
		Locator:  newLocator(req.Category),
		Category: req.Category,
		Parent:   req.ParentLocator,
		Draft:    Fields{DisplayName: req.DisplayName},
		EditedOn: now,
		EditedBy: editor,
	}
	if req.Start != nil {
		block.Start = req.Start.UTC()
	}
	block, err := svc.store.CreateBlock(ctx, block)
	if err != nil {
		return Info{}, err
	}
	return svc.info(ctx, block)
}

// Save applies a partial update.
// discard_changes reverts the draft to the live version and ignores everything else.
// Otherwise the metadata is applied first, then make_public publishes the resulting draft.
func (svc *Service) Save(ctx context.Context, locator string, req UpdateRequest, editor string) (Info, error) {
	if err := svc.validate.Struct(req); err != nil {
		return Info{}, err
	}
	block, err := svc.store.GetBlock(ctx, locator)
	if err != nil {
		return Info{}, err
	}
	now := NowFunc().UTC()

	if req.Publish == PublishDiscardChanges {
		if block.Live == nil {
			return Info{}, core.NewValidationError(errNotPublished, core.FieldError{Field: "publish", Error: errNotPublished.Error()})
		}
		block.Draft = *block.Live
		if block, err = svc.store.UpdateBlock(ctx, block); err != nil {
			return Info{}, err
		}
		return svc.info(ctx, block)
	}

	if md := req.Metadata; md != nil {
		draft := block.Draft
		switch {
		case md.DisplayName != nil:
			draft.DisplayName = core.CleanString(*md.DisplayName)
		case md.Unsets(AttrDisplayName):
			draft.DisplayName = ""
		}
		switch {
		case md.VisibleToStaffOnly != nil:
			draft.VisibleToStaffOnly = *md.VisibleToStaffOnly
		case md.Unsets(AttrVisibleToStaffOnly):
			draft.VisibleToStaffOnly = false
		}
		if draft != block.Draft {
			block.Draft = draft
			block.EditedOn = now
			block.EditedBy = editor
		}
	}

	if req.Publish == PublishMakePublic {
		live := block.Draft
		block.Live = &live
		block.PublishedOn = now
		block.PublishedBy = editor
	}

	if block, err = svc.store.UpdateBlock(ctx, block); err != nil {
		return Info{}, err
	}
	return svc.info(ctx, block)
}

// duplicate copies req.DuplicateSourceLocator and its descendants under req.ParentLocator
// (the source's parent when empty). The copies are unpublished drafts named "Duplicate of ..."
// unless req.DisplayName names the top one.
func (svc *Service) duplicate(ctx context.Context, req CreateRequest, editor string) (Info, error) {
	source, err := svc.store.GetBlock(ctx, req.DuplicateSourceLocator)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Info{}, core.NewValidationError(errSourceNotFound, core.FieldError{Field: "duplicate_source_locator", Error: errSourceNotFound.Error()})
		}
		return Info{}, err
	}

	parent := source.Parent
	if req.ParentLocator != "" {
		parent = req.ParentLocator
		inside, err := svc.isWithin(ctx, parent, source.Locator)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Info{}, core.NewValidationError(errParentNotFound, core.FieldError{Field: "parent_locator", Error: errParentNotFound.Error()})
			}
			return Info{}, err
		}
		if inside {
			return Info{}, core.NewValidationError(errDuplicateInto, core.FieldError{Field: "parent_locator", Error: errDuplicateInto.Error()})
		}
	}

	block, err := svc.copyTree(ctx, source, parent, core.CleanString(req.DisplayName), editor, NowFunc().UTC())
	if err != nil {
		return Info{}, err
	}
	return svc.info(ctx, block)
}

// isWithin reports whether locator is ancestor or one of its descendants.
func (svc *Service) isWithin(ctx context.Context, locator, ancestor string) (bool, error) {
	for i := 0; locator != "" && i < maxAncestors; i++ {
		if locator == ancestor {
			return true, nil
		}
		block, err := svc.store.GetBlock(ctx, locator)
		if err != nil {
			return false, err
		}
		locator = block.Parent
	}
	return false, nil
}

func (svc *Service) copyTree(ctx context.Context, source Block, parent, displayName, editor string, now time.Time) (Block, error) {
	children, err := svc.store.ChildBlocks(ctx, source.Locator)
	if err != nil {
		return Block{}, err
	}

	if displayName == "" {
		if source.Draft.DisplayName == "" {
			displayName = "Duplicate of " + source.Category
		} else {
			displayName = fmt.Sprintf("Duplicate of '%s'", source.Draft.DisplayName)
		}
	}
	dup := Block{
		Locator:  newLocator(source.Category),
		Category: source.Category,
		Parent:   parent,
		Start:    source.Start,
		Draft:    source.Draft,
		EditedOn: now,
		EditedBy: editor,
	}
	dup.Draft.DisplayName = displayName
	if dup, err = svc.store.CreateBlock(ctx, dup); err != nil {
		return Block{}, err
	}

	for _, child := range children {
		if _, err = svc.copyTree(ctx, child, dup.Locator, "", editor, now); err != nil {
			return Block{}, err
		}
	}
	return dup, nil
}

func (svc *Service) Delete(ctx context.Context, locator string) error {
	return svc.store.DeleteBlock(ctx, locator)
}

func newLocator(category string) string {
	return category + "+block@" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// info builds the block's Info, inheriting the release date from the closest ancestor that sets one.
func (svc *Service) info(ctx context.Context, block Block) (Info, error) {
	source := block
	for i := 0; source.Start.IsZero() && source.Parent != "" && i < maxAncestors; i++ {
		parent, err := svc.store.GetBlock(ctx, source.Parent)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				break
			}
			return Info{}, err
		}
		source = parent
	}
	return block.Info(NowFunc(), &source), nil
}
