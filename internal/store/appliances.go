package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"energy-cost-backend/internal/appliance"
)

// AppliancesKey is the well-known key holding the appliance collection.
const AppliancesKey = "appliances"

// ApplianceRecords persists the appliance collection as one JSON array
// under AppliancesKey. It implements appliance.Persistence.
type ApplianceRecords struct {
	kv Store
}

// NewApplianceRecords wraps kv.
func NewApplianceRecords(kv Store) *ApplianceRecords {
	return &ApplianceRecords{kv: kv}
}

// Load decodes the stored collection. Derived fields embedded in the
// stored snapshots are ignored.
func (r *ApplianceRecords) Load(ctx context.Context) ([]appliance.Record, error) {
	raw, ok, err := r.kv.Get(ctx, AppliancesKey)
	if errors.Is(err, ErrCorruptFile) {
		return nil, fmt.Errorf("%w: %v", appliance.ErrCorruptSnapshot, err)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var elems []*appliance.Record
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", appliance.ErrCorruptSnapshot, err)
	}
	if elems == nil {
		return nil, fmt.Errorf("%w: stored value is null", appliance.ErrCorruptSnapshot)
	}

	records := make([]appliance.Record, len(elems))
	for i, rec := range elems {
		if rec == nil {
			return nil, fmt.Errorf("%w: element %d is null", appliance.ErrCorruptSnapshot, i)
		}
		records[i] = *rec
	}
	return records, nil
}

// Save overwrites the stored collection.
func (r *ApplianceRecords) Save(ctx context.Context, snapshots []appliance.Snapshot) error {
	if snapshots == nil {
		snapshots = []appliance.Snapshot{}
	}
	b, err := json.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("failed to encode appliances: %w", err)
	}
	return r.kv.Put(ctx, AppliancesKey, b)
}
