// Package ledger coordinates every mutation of the asset, transfer and
// disposal ledgers: it validates input, derives computed fields, performs
// the primary write, propagates transfers onto assets and appends one audit
// entry per successful mutation.
//
// The primary write is authoritative. Audit entries and transfer
// propagation are best-effort: their failures are logged and counted but
// never returned to the caller and never undo the primary write.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crucial707/pwasset/internal/authz"
	"github.com/crucial707/pwasset/internal/ledgertime"
	"github.com/crucial707/pwasset/internal/metrics"
	"github.com/crucial707/pwasset/internal/models"
	"github.com/crucial707/pwasset/internal/repo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AssetStore is the asset ledger.
type AssetStore interface {
	Create(ctx context.Context, a *models.Asset) error
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	Update(ctx context.Context, id string, assigns []repo.Assignment) (*models.Asset, error)
	ApplyTransfer(ctx context.Context, oldAssetCode, location string, when time.Time, operator string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context, locations []string) ([]models.Asset, error)
}

// TransferStore is the transfer ledger.
type TransferStore interface {
	Create(ctx context.Context, t *models.Transfer) error
	GetByID(ctx context.Context, id string) (*models.Transfer, error)
	Update(ctx context.Context, id string, assigns []repo.Assignment) (*models.Transfer, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context, locations []string) ([]models.Transfer, error)
}

// DisposalStore is the disposal ledger.
type DisposalStore interface {
	Create(ctx context.Context, d *models.Disposal) error
	GetByID(ctx context.Context, id string) (*models.Disposal, error)
	Update(ctx context.Context, id string, assigns []repo.Assignment) (*models.Disposal, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context, locations []string) ([]models.Disposal, error)
}

// ParkLookup resolves a park for area-code denormalisation.
type ParkLookup interface {
	GetByID(ctx context.Context, id string) (*models.Park, error)
}

// AuditStore is the append-only audit log.
type AuditStore interface {
	Log(ctx context.Context, e *models.AuditEntry) error
	List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error)
}

// Coordinator is the mutation core. Build it with New.
type Coordinator struct {
	assets    AssetStore
	transfers TransferStore
	disposals DisposalStore
	parks     ParkLookup
	audit     AuditStore
	policy    authz.Policy
	clock     ledgertime.Clock
	newID     func() string
	log       *slog.Logger
	validate  *validator.Validate
}

// Deps are the collaborators of a Coordinator. Policy, Clock, NewID and
// Logger are optional.
type Deps struct {
	Assets    AssetStore
	Transfers TransferStore
	Disposals DisposalStore
	Parks     ParkLookup
	Audit     AuditStore
	Policy    authz.Policy
	Clock     ledgertime.Clock
	NewID     func() string
	Logger    *slog.Logger
}

func New(d Deps) *Coordinator {
	c := &Coordinator{
		assets:    d.Assets,
		transfers: d.Transfers,
		disposals: d.Disposals,
		parks:     d.Parks,
		audit:     d.Audit,
		policy:    d.Policy,
		clock:     d.Clock,
		newID:     d.NewID,
		log:       d.Logger,
		validate:  newValidator(),
	}
	if c.policy == nil {
		c.policy = authz.AllowAll{}
	}
	if c.clock == nil {
		c.clock = ledgertime.SystemClock
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

func (c *Coordinator) now() time.Time {
	return ledgertime.Now(c.clock)
}

// operator is the display name stamped on records the user touches.
func operator(user *models.User) string {
	if user == nil {
		return ""
	}
	return user.UserName
}

// record appends one audit entry, best-effort.
func (c *Coordinator) record(ctx context.Context, user *models.User, action, targetType, targetID string, before, after models.Snapshot) {
	if before == nil {
		before = models.Snapshot{}
	}
	if after == nil {
		after = models.Snapshot{}
	}
	entry := &models.AuditEntry{
		ID:         c.newID(),
		Action:     action,
		Operator:   operator(user),
		Before:     before,
		After:      after,
		Time:       ledgertime.FormatAudit(c.clock()),
		TargetType: targetType,
		TargetID:   targetID,
	}
	c.bestEffort(ctx, "audit", func(ctx context.Context) error {
		return c.audit.Log(ctx, entry)
	}, "action", action, "target_type", targetType, "target_id", targetID)
}

// bestEffort runs a secondary write detached from request cancellation.
// A failure is logged and counted, never returned.
func (c *Coordinator) bestEffort(ctx context.Context, kind string, fn func(context.Context) error, attrs ...any) {
	if err := fn(context.WithoutCancel(ctx)); err != nil {
		metrics.IncSideEffectFailure(kind)
		c.log.WarnContext(ctx, "best-effort write failed",
			append([]any{"kind", kind, "error", err}, attrs...)...)
	}
}

// propagate mirrors a transfer onto the asset carrying its code.
func (c *Coordinator) propagate(ctx context.Context, t *models.Transfer) {
	if t.OldAssetCode == "" || t.To == "" {
		return
	}
	c.bestEffort(ctx, "propagate", func(ctx context.Context) error {
		found, err := c.assets.ApplyTransfer(ctx, t.OldAssetCode, t.To, t.When, t.Operator)
		if err != nil {
			return err
		}
		if !found {
			metrics.IncPropagationSkipped()
			c.log.DebugContext(ctx, "transfer has no matching asset", "old_asset_code", t.OldAssetCode, "transfer_id", t.ID)
		}
		return nil
	}, "transfer_id", t.ID, "old_asset_code", t.OldAssetCode)
}

// assignments converts a client "after" map into column assignments.
// Unknown fields are dropped, "when" goes through the date rules and
// operator is always the acting user.
func (c *Coordinator) assignments(fields repo.FieldSet, after map[string]any, user *models.User) ([]repo.Assignment, error) {
	out := make([]repo.Assignment, 0, len(after)+1)
	for field, raw := range after {
		if field == "operator" {
			continue
		}
		col, ok := fields.Column(field)
		if !ok {
			c.log.Debug("ignoring unknown update field", "field", field)
			continue
		}
		if field == "when" {
			s, _ := raw.(string)
			out = append(out, repo.Assignment{Column: col, Value: ledgertime.ToStore(ledgertime.ParseEditDate(s, c.clock))})
			continue
		}
		v, err := scalar(field, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, repo.Assignment{Column: col, Value: v})
	}
	col, _ := fields.Column("operator")
	out = append(out, repo.Assignment{Column: col, Value: operator(user)})
	return out, nil
}

func scalar(field string, raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64, bool, int, int64:
		return fmt.Sprint(v), nil
	default:
		return "", invalidField(field, "must be a string")
	}
}

// notFound translates a repository miss into a *NotFoundError.
func notFound(err error, target, id string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return &NotFoundError{Target: target, ID: id}
	}
	return err
}

func requireID(id string) error {
	if id == "" {
		return &ValidationError{Message: "id is required", Fields: map[string]string{"id": "required"}}
	}
	return nil
}

// ListAudit returns audit entries, newest first.
func (c *Coordinator) ListAudit(ctx context.Context, limit, offset int) ([]models.AuditEntry, error) {
	return c.audit.List(ctx, limit, offset)
}
