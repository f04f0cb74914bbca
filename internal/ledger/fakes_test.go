package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/crucial707/pwasset/internal/models"
	"github.com/crucial707/pwasset/internal/repo"
)

var errStoreDown = errors.New("store down")

type memAssets struct {
	mu         sync.Mutex
	rows       map[string]*models.Asset
	applyErr   error
	applyCalls int
}

func newMemAssets() *memAssets { return &memAssets{rows: map[string]*models.Asset{}} }

func (m *memAssets) Create(_ context.Context, a *models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.rows[a.ID] = &cp
	return nil
}

func (m *memAssets) GetByID(_ context.Context, id string) (*models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAssets) Update(ctx context.Context, id string, assigns []repo.Assignment) (*models.Asset, error) {
	m.mu.Lock()
	a, ok := m.rows[id]
	if !ok {
		m.mu.Unlock()
		return nil, repo.ErrNotFound
	}
	for _, as := range assigns {
		switch as.Column {
		case `"when"`:
			a.When = as.Value.(time.Time)
		case "old_asset_code":
			a.OldAssetCode = as.Value.(string)
		case "serial_number":
			a.SerialNumber = as.Value.(string)
		case "operator":
			a.Operator = as.Value.(string)
		case "details":
			a.Details = as.Value.(string)
		case "location":
			a.Location = as.Value.(string)
		case "area_code":
			a.AreaCode = as.Value.(string)
		case "tag":
			a.Tag = as.Value.(string)
		}
	}
	m.mu.Unlock()
	return m.GetByID(ctx, id)
}

func (m *memAssets) ApplyTransfer(_ context.Context, code, location string, when time.Time, operator string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyCalls++
	if m.applyErr != nil {
		return false, m.applyErr
	}
	var newest *models.Asset
	for _, a := range m.rows {
		if a.OldAssetCode == code && (newest == nil || a.When.After(newest.When)) {
			newest = a
		}
	}
	if newest == nil {
		return false, nil
	}
	newest.Location, newest.When, newest.Operator = location, when, operator
	return true, nil
}

func (m *memAssets) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memAssets) List(_ context.Context, locations []string) ([]models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Asset{}
	for _, a := range m.rows {
		if matches(a.Location, locations) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].When.After(out[j].When) })
	return out, nil
}

type memTransfers struct {
	mu   sync.Mutex
	rows map[string]*models.Transfer
}

func newMemTransfers() *memTransfers { return &memTransfers{rows: map[string]*models.Transfer{}} }

func (m *memTransfers) Create(_ context.Context, t *models.Transfer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.rows[t.ID] = &cp
	return nil
}

func (m *memTransfers) GetByID(_ context.Context, id string) (*models.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTransfers) Update(ctx context.Context, id string, assigns []repo.Assignment) (*models.Transfer, error) {
	m.mu.Lock()
	t, ok := m.rows[id]
	if !ok {
		m.mu.Unlock()
		return nil, repo.ErrNotFound
	}
	for _, as := range assigns {
		switch as.Column {
		case `"when"`:
			t.When = as.Value.(time.Time)
		case "old_asset_code":
			t.OldAssetCode = as.Value.(string)
		case `"by"`:
			t.By = as.Value.(string)
		case `"to"`:
			t.To = as.Value.(string)
		case "reason":
			t.Reason = as.Value.(string)
		case "operator":
			t.Operator = as.Value.(string)
		case "location":
			t.Location = as.Value.(string)
		}
	}
	m.mu.Unlock()
	return m.GetByID(ctx, id)
}

func (m *memTransfers) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memTransfers) List(_ context.Context, locations []string) ([]models.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Transfer{}
	for _, t := range m.rows {
		if matches(t.Location, locations) {
			out = append(out, *t)
		}
	}
	return out, nil
}

type memDisposals struct {
	mu   sync.Mutex
	rows map[string]*models.Disposal
}

func newMemDisposals() *memDisposals { return &memDisposals{rows: map[string]*models.Disposal{}} }

func (m *memDisposals) Create(_ context.Context, d *models.Disposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.rows[d.ID] = &cp
	return nil
}

func (m *memDisposals) GetByID(_ context.Context, id string) (*models.Disposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDisposals) Update(ctx context.Context, id string, assigns []repo.Assignment) (*models.Disposal, error) {
	m.mu.Lock()
	d, ok := m.rows[id]
	if !ok {
		m.mu.Unlock()
		return nil, repo.ErrNotFound
	}
	for _, as := range assigns {
		switch as.Column {
		case `"when"`:
			d.When = as.Value.(time.Time)
		case "location":
			d.Location = as.Value.(string)
		case "old_asset_code":
			d.OldAssetCode = as.Value.(string)
		case "serial_number":
			d.SerialNumber = as.Value.(string)
		case "details":
			d.Details = as.Value.(string)
		case "reason":
			d.Reason = as.Value.(string)
		case "operator":
			d.Operator = as.Value.(string)
		}
	}
	m.mu.Unlock()
	return m.GetByID(ctx, id)
}

func (m *memDisposals) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memDisposals) List(_ context.Context, locations []string) ([]models.Disposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Disposal{}
	for _, d := range m.rows {
		if matches(d.Location, locations) {
			out = append(out, *d)
		}
	}
	return out, nil
}

type memParks map[string]models.Park

func (m memParks) GetByID(_ context.Context, id string) (*models.Park, error) {
	p, ok := m[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

type memAudit struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	err     error
}

func (m *memAudit) Log(_ context.Context, e *models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memAudit) List(_ context.Context, limit, offset int) ([]models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if offset >= len(m.entries) {
		return []models.AuditEntry{}, nil
	}
	end := offset + limit
	if end > len(m.entries) {
		end = len(m.entries)
	}
	return append([]models.AuditEntry(nil), m.entries[offset:end]...), nil
}

func matches(loc string, locations []string) bool {
	if len(locations) == 0 {
		return true
	}
	for _, l := range locations {
		if l == loc {
			return true
		}
	}
	return false
}

// fixture bundles a Coordinator with its in-memory stores.
type fixture struct {
	c         *Coordinator
	assets    *memAssets
	transfers *memTransfers
	disposals *memDisposals
	audit     *memAudit
	now       time.Time
}

func newFixture() *fixture {
	f := &fixture{
		assets:    newMemAssets(),
		transfers: newMemTransfers(),
		disposals: newMemDisposals(),
		audit:     &memAudit{},
		now:       time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC),
	}
	n := 0
	f.c = New(Deps{
		Assets:    f.assets,
		Transfers: f.transfers,
		Disposals: f.disposals,
		Parks:     memParks{"P1": {ParkID: "P1", AreaCode: "N"}, "P2": {ParkID: "P2", AreaCode: "S"}},
		Audit:     f.audit,
		Clock:     func() time.Time { return f.now },
		NewID: func() string {
			n++
			return "id-" + string(rune('a'+n-1))
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f
}

var alice = &models.User{UserID: "u1", UserName: "Alice", ParkIDs: []string{"P1"}}
