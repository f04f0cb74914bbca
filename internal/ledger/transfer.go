package ledger

import (
	"context"

	"github.com/crucial707/pwasset/internal/ledgertime"
	"github.com/crucial707/pwasset/internal/metrics"
	"github.com/crucial707/pwasset/internal/models"
	"github.com/crucial707/pwasset/internal/repo"
)

// AddTransfer records a move to in.To and moves the asset with the same
// code there, when one exists.
func (c *Coordinator) AddTransfer(ctx context.Context, user *models.User, in TransferInput) (*models.Transfer, error) {
	if err := validateInput(c.validate, in); err != nil {
		return nil, err
	}
	if err := c.policy.CanWrite(user, in.To); err != nil {
		return nil, err
	}

	reason := in.Reason
	if reason == "" {
		reason = models.DefaultTransferReason
	}
	t := &models.Transfer{
		ID:           c.newID(),
		OldAssetCode: in.OldAssetCode,
		By:           in.By,
		To:           in.To,
		Reason:       reason,
		When:         ledgertime.ParseDate(in.WhenDate, c.clock),
		Operator:     operator(user),
		Location:     in.To,
	}
	if err := c.transfers.Create(ctx, t); err != nil {
		return nil, err
	}
	metrics.IncMutation(models.TargetTransfer, models.ActionAdd)

	c.propagate(ctx, t)
	c.record(ctx, user, models.ActionAdd, models.TargetTransfer, t.ID, nil, t.Snapshot())
	return t, nil
}

// UpdateTransfer applies a partial edit and re-propagates the resulting
// destination and time onto the asset.
func (c *Coordinator) UpdateTransfer(ctx context.Context, user *models.User, id string, after map[string]any) (*models.Transfer, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	before, err := c.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, models.TargetTransfer, id)
	}
	if err := c.policy.CanWrite(user, before.Location); err != nil {
		return nil, err
	}

	edits := make(map[string]any, len(after)+1)
	for k, v := range after {
		edits[k] = v
	}
	// location mirrors "to" unless the client sets it explicitly.
	if to, ok := edits["to"]; ok {
		if _, set := edits["location"]; !set {
			edits["location"] = to
		}
	}
	if to, ok := edits["to"].(string); ok && to != before.To {
		if err := c.policy.CanWrite(user, to); err != nil {
			return nil, err
		}
	}

	assigns, err := c.assignments(repo.TransferFields, edits, user)
	if err != nil {
		return nil, err
	}
	updated, err := c.transfers.Update(ctx, id, assigns)
	if err != nil {
		return nil, notFound(err, models.TargetTransfer, id)
	}
	metrics.IncMutation(models.TargetTransfer, models.ActionEdit)

	c.propagate(ctx, updated)
	c.record(ctx, user, models.ActionEdit, models.TargetTransfer, id, before.Snapshot(), updated.Snapshot())
	return updated, nil
}

// DeleteTransfer removes a transfer record. The asset keeps its location.
func (c *Coordinator) DeleteTransfer(ctx context.Context, user *models.User, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	before, err := c.transfers.GetByID(ctx, id)
	if err != nil {
		return notFound(err, models.TargetTransfer, id)
	}
	if err := c.policy.CanWrite(user, before.Location); err != nil {
		return err
	}
	if err := c.transfers.DeleteByID(ctx, id); err != nil {
		return notFound(err, models.TargetTransfer, id)
	}
	metrics.IncMutation(models.TargetTransfer, models.ActionDelete)

	c.record(ctx, user, models.ActionDelete, models.TargetTransfer, id, before.Snapshot(), nil)
	return nil
}

// ListTransfers returns transfers into locations (nil for all), newest first.
func (c *Coordinator) ListTransfers(ctx context.Context, user *models.User, locations []string) ([]models.Transfer, error) {
	locs, err := c.policy.Locations(user, locations)
	if err != nil {
		return nil, err
	}
	return c.transfers.List(ctx, locs)
}
