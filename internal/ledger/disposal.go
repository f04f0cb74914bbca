package ledger

import (
	"context"

	"github.com/crucial707/pwasset/internal/ledgertime"
	"github.com/crucial707/pwasset/internal/metrics"
	"github.com/crucial707/pwasset/internal/models"
	"github.com/crucial707/pwasset/internal/repo"
)

// ComposeReason builds the stored disposal reason from a category and
// vendor. Sales and trade-ins need a vendor; any other category is scrap.
func ComposeReason(category, vendor string) (string, error) {
	switch category {
	case models.ReasonSoldToThird:
		if vendor == "" {
			return "", vendorRequired()
		}
		return "Sold To " + vendor, nil
	case models.ReasonTradeIn:
		if vendor == "" {
			return "", vendorRequired()
		}
		return "Trade in to " + vendor, nil
	default:
		return models.ReasonScrapped, nil
	}
}

func vendorRequired() *ValidationError {
	return &ValidationError{
		Message: "vendor is required for the selected reason",
		Fields:  map[string]string{"vendor": "required"},
	}
}

// AddDisposal records a retirement. The asset record is left as it is.
func (c *Coordinator) AddDisposal(ctx context.Context, user *models.User, in DisposalInput) (*models.Disposal, error) {
	if err := validateInput(c.validate, in); err != nil {
		return nil, err
	}
	reason, err := ComposeReason(in.ReasonCategory, in.Vendor)
	if err != nil {
		return nil, err
	}
	if err := c.policy.CanWrite(user, in.Location); err != nil {
		return nil, err
	}

	d := &models.Disposal{
		ID:           c.newID(),
		Location:     in.Location,
		OldAssetCode: in.OldAssetCode,
		SerialNumber: in.SerialNumber,
		Details:      in.Details,
		Reason:       reason,
		When:         ledgertime.ParseDate(in.WhenDate, c.clock),
		Operator:     operator(user),
	}
	if err := c.disposals.Create(ctx, d); err != nil {
		return nil, err
	}
	metrics.IncMutation(models.TargetDisposal, models.ActionAdd)

	c.record(ctx, user, models.ActionAdd, models.TargetDisposal, d.ID, nil, d.Snapshot())
	return d, nil
}

// UpdateDisposal applies a partial edit.
func (c *Coordinator) UpdateDisposal(ctx context.Context, user *models.User, id string, after map[string]any) (*models.Disposal, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	before, err := c.disposals.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, models.TargetDisposal, id)
	}
	if err := c.policy.CanWrite(user, before.Location); err != nil {
		return nil, err
	}
	if loc, ok := after["location"].(string); ok && loc != before.Location {
		if err := c.policy.CanWrite(user, loc); err != nil {
			return nil, err
		}
	}

	assigns, err := c.assignments(repo.DisposalFields, after, user)
	if err != nil {
		return nil, err
	}
	updated, err := c.disposals.Update(ctx, id, assigns)
	if err != nil {
		return nil, notFound(err, models.TargetDisposal, id)
	}
	metrics.IncMutation(models.TargetDisposal, models.ActionEdit)

	c.record(ctx, user, models.ActionEdit, models.TargetDisposal, id, before.Snapshot(), updated.Snapshot())
	return updated, nil
}

// DeleteDisposal removes a disposal record.
func (c *Coordinator) DeleteDisposal(ctx context.Context, user *models.User, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	before, err := c.disposals.GetByID(ctx, id)
	if err != nil {
		return notFound(err, models.TargetDisposal, id)
	}
	if err := c.policy.CanWrite(user, before.Location); err != nil {
		return err
	}
	if err := c.disposals.DeleteByID(ctx, id); err != nil {
		return notFound(err, models.TargetDisposal, id)
	}
	metrics.IncMutation(models.TargetDisposal, models.ActionDelete)

	c.record(ctx, user, models.ActionDelete, models.TargetDisposal, id, before.Snapshot(), nil)
	return nil
}

// ListDisposals returns disposals at locations (nil for all), newest first.
func (c *Coordinator) ListDisposals(ctx context.Context, user *models.User, locations []string) ([]models.Disposal, error) {
	locs, err := c.policy.Locations(user, locations)
	if err != nil {
		return nil, err
	}
	return c.disposals.List(ctx, locs)
}
