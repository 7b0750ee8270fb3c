package lineage

import (
	"context"
	"errors"

	"imagecreator/internal/domain"
)

// Graph answers ancestry questions over the stored assets. Assets form a
// forest through ParentID; edits append children, they never mutate parents.
type Graph struct {
	repo domain.AssetRepository
}

func NewGraph(repo domain.AssetRepository) *Graph {
	return &Graph{repo: repo}
}

// HistoryEntry is one step of an operation chain: the asset, the operation
// that produced it, its position from the root, and whether undo and redo
// are possible from this step.
type HistoryEntry struct {
	Asset   domain.ImageAsset    `json:"asset"`
	Kind    domain.OperationKind `json:"kind"`
	Index   int                  `json:"index"`
	CanUndo bool                 `json:"can_undo"`
	CanRedo bool                 `json:"can_redo"`
}

// RootChain walks parent links from the asset to its root, returning the
// chain ordered root first. A dangling parent reference ends the walk at the
// last resolvable ancestor instead of failing.
func (g *Graph) RootChain(ctx context.Context, id string) ([]domain.ImageAsset, error) {
	asset, err := g.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	chain := []domain.ImageAsset{*asset}
	seen := map[string]bool{asset.ID: true}
	for asset.ParentID != "" {
		parent, err := g.repo.Get(ctx, asset.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrAssetNotFound) {
				break
			}
			return nil, err
		}
		if seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		chain = append(chain, *parent)
		asset = parent
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Children returns direct descendants in storage order.
func (g *Graph) Children(ctx context.Context, id string) ([]domain.ImageAsset, error) {
	if _, err := g.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	all, err := g.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	var children []domain.ImageAsset
	for _, a := range all {
		if a.ParentID == id {
			children = append(children, a)
		}
	}
	return children, nil
}

// Undo resolves the asset's parent. An asset with no parent, or whose parent
// record is gone, has nothing to step back to.
func (g *Graph) Undo(ctx context.Context, id string) (*domain.ImageAsset, error) {
	asset, err := g.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.ParentID == "" {
		return nil, domain.ErrNothingToUndo
	}
	parent, err := g.repo.Get(ctx, asset.ParentID)
	if err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			return nil, domain.ErrNothingToUndo
		}
		return nil, err
	}
	return parent, nil
}

// Redo resolves the most recent child, the one an undo most plausibly came
// from. Ties on creation time resolve to the later stored child.
func (g *Graph) Redo(ctx context.Context, id string) (*domain.ImageAsset, error) {
	children, err := g.Children(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, domain.ErrNothingToRedo
	}
	latest := children[0]
	for _, c := range children[1:] {
		if !c.CreatedAt.Before(latest.CreatedAt) {
			latest = c
		}
	}
	return &latest, nil
}

// History returns the root chain annotated with each step's operation kind,
// position index, and undo/redo availability. CanUndo mirrors Undo's
// predicate (a resolvable parent exists, which holds for every entry past
// the chain head) and CanRedo mirrors Redo's (at least one child exists).
func (g *Graph) History(ctx context.Context, id string) ([]HistoryEntry, error) {
	chain, err := g.RootChain(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := g.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	hasChild := make(map[string]bool)
	for _, a := range all {
		if a.ParentID != "" {
			hasChild[a.ParentID] = true
		}
	}
	entries := make([]HistoryEntry, len(chain))
	for i, a := range chain {
		entries[i] = HistoryEntry{
			Asset:   a,
			Kind:    a.ResolveKind(),
			Index:   i,
			CanUndo: i > 0,
			CanRedo: hasChild[a.ID],
		}
	}
	return entries, nil
}
