package ledger

import (
	"context"
	"errors"

	"github.com/crucial707/pwasset/internal/metrics"
	"github.com/crucial707/pwasset/internal/models"
	"github.com/crucial707/pwasset/internal/repo"
)

// legacyAssetFields are retired fields that must not come back through edits.
var legacyAssetFields = []string{"newAssetCode", "New Asset Code"}

// AddAsset creates an onsite asset at in.Location, copying the park's
// area code at creation time.
func (c *Coordinator) AddAsset(ctx context.Context, user *models.User, in AssetInput) (*models.Asset, error) {
	if err := validateInput(c.validate, in); err != nil {
		return nil, err
	}
	if err := c.policy.CanWrite(user, in.Location); err != nil {
		return nil, err
	}

	areaCode := ""
	park, err := c.parks.GetByID(ctx, in.Location)
	switch {
	case err == nil:
		areaCode = park.AreaCode
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}

	a := &models.Asset{
		ID:           c.newID(),
		When:         c.now(),
		OldAssetCode: in.OldAssetCode,
		SerialNumber: in.SerialNumber,
		Operator:     operator(user),
		Details:      in.Details,
		Tag:          models.TagOnsite,
		Location:     in.Location,
		AreaCode:     areaCode,
		SyncOrigin:   models.SyncOriginAPI,
	}
	if err := c.assets.Create(ctx, a); err != nil {
		return nil, err
	}
	metrics.IncMutation(models.TargetAsset, models.ActionAdd)

	c.record(ctx, user, models.ActionAdd, models.TargetAsset, a.ID, nil, a.Snapshot())
	return a, nil
}

// UpdateAsset applies a partial edit. The lifecycle tag and legacy fields
// are stripped from after before it is applied.
func (c *Coordinator) UpdateAsset(ctx context.Context, user *models.User, id string, after map[string]any) (*models.Asset, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	before, err := c.assets.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, models.TargetAsset, id)
	}
	if err := c.policy.CanWrite(user, before.Location); err != nil {
		return nil, err
	}

	edits := make(map[string]any, len(after))
	for k, v := range after {
		edits[k] = v
	}
	delete(edits, "tag")
	for _, f := range legacyAssetFields {
		delete(edits, f)
	}
	if loc, ok := edits["location"].(string); ok && loc != before.Location {
		if err := c.policy.CanWrite(user, loc); err != nil {
			return nil, err
		}
	}

	assigns, err := c.assignments(repo.AssetFields, edits, user)
	if err != nil {
		return nil, err
	}
	updated, err := c.assets.Update(ctx, id, assigns)
	if err != nil {
		return nil, notFound(err, models.TargetAsset, id)
	}
	metrics.IncMutation(models.TargetAsset, models.ActionEdit)

	c.record(ctx, user, models.ActionEdit, models.TargetAsset, id, before.Snapshot(), updated.Snapshot())
	return updated, nil
}

// DeleteAsset removes an asset. Transfers and disposals naming it remain.
func (c *Coordinator) DeleteAsset(ctx context.Context, user *models.User, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	before, err := c.assets.GetByID(ctx, id)
	if err != nil {
		return notFound(err, models.TargetAsset, id)
	}
	if err := c.policy.CanWrite(user, before.Location); err != nil {
		return err
	}
	if err := c.assets.DeleteByID(ctx, id); err != nil {
		return notFound(err, models.TargetAsset, id)
	}
	metrics.IncMutation(models.TargetAsset, models.ActionDelete)

	c.record(ctx, user, models.ActionDelete, models.TargetAsset, id, before.Snapshot(), nil)
	return nil
}

// ListAssets returns assets at locations (nil for all), newest first.
func (c *Coordinator) ListAssets(ctx context.Context, user *models.User, locations []string) ([]models.Asset, error) {
	locs, err := c.policy.Locations(user, locations)
	if err != nil {
		return nil, err
	}
	return c.assets.List(ctx, locs)
}
