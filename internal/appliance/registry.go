package appliance

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"energy-cost-backend/internal/category"
)

// Persistence is the durability layer behind a Registry.
type Persistence interface {
	// Load returns the stored records, or nil when nothing has been stored.
	// Undecodable content is reported by wrapping ErrCorruptSnapshot.
	Load(ctx context.Context) ([]Record, error)
	// Save overwrites the stored collection.
	Save(ctx context.Context, snapshots []Snapshot) error
}

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// IDFunc mints appliance identifiers.
type IDFunc func() string

// ChartData holds parallel sequences for a consumption-by-category chart.
type ChartData struct {
	Values []float64 `json:"values"`
	Labels []string  `json:"labels"`
	Colors []string  `json:"colors"`
}

// Summary is a consistent view of the registry aggregates.
type Summary struct {
	Count                 int                `json:"count"`
	TotalConsumptionKWh   float64            `json:"totalConsumptionKWh"`
	TotalCost             float64            `json:"totalCost"`
	ConsumptionByCategory map[string]float64 `json:"consumptionByCategory"`
}

// Registry owns the ordered collection of appliances.
//
// Mutations and the persist that follows them run under the write lock, so
// a read-modify-persist sequence is atomic with respect to other mutators.
// Reads share the read lock. Returned appliances are copies.
type Registry struct {
	persistence Persistence
	policy      UpdatePolicy
	newID       IDFunc
	logger      Logger

	mu    sync.RWMutex
	items []*Appliance
}

// Option configures a Registry.
type Option func(*Registry)

// WithUpdatePolicy sets the partial-update policy. The default is IgnoreFalsy.
func WithUpdatePolicy(p UpdatePolicy) Option {
	return func(r *Registry) { r.policy = p }
}

// WithIDFunc replaces the identifier generator.
func WithIDFunc(fn IDFunc) Option {
	return func(r *Registry) { r.newID = fn }
}

// WithLogger sets the registry logger.
func WithLogger(l Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates an empty registry backed by p. Call Restore to load
// previously persisted appliances.
func NewRegistry(p Persistence, opts ...Option) *Registry {
	r := &Registry{
		persistence: p,
		policy:      IgnoreFalsy,
		newID:       generateID,
		logger:      noopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// generateID returns a time-ordered UUIDv7. Collisions are not checked.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Policy reports the partial-update policy in effect.
func (r *Registry) Policy() UpdatePolicy {
	return r.policy
}

// Add registers a new appliance and persists the collection. Input is not
// validated. The returned error, if any, comes from persistence; the
// appliance is registered regardless.
func (r *Registry) Add(ctx context.Context, f Fields) (Appliance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := New(r.newID(), f.Name, f.CategoryID, f.PowerWatts, f.HoursPerDay, f.DaysPerMonth, f.TariffPerKWh)
	r.items = append(r.items, &a)
	r.logger.Debug("appliance added", "id", a.ID, "name", a.Name)

	return a, r.persistLocked(ctx)
}

// Remove deletes the appliance with the given id. It reports false when no
// such appliance exists.
func (r *Registry) Remove(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return false, nil
	}
	r.items = append(r.items[:idx], r.items[idx+1:]...)
	r.logger.Debug("appliance removed", "id", id)

	return true, r.persistLocked(ctx)
}

// Update applies a partial update to the appliance with the given id and
// returns the result. It reports false when no such appliance exists.
func (r *Registry) Update(ctx context.Context, id string, u PartialUpdate) (Appliance, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return Appliance{}, false, nil
	}
	a := r.items[idx]
	a.Update(u, r.policy)
	r.logger.Debug("appliance updated", "id", id)

	return *a, true, r.persistLocked(ctx)
}

// Find returns the appliance with the given id.
func (r *Registry) Find(id string) (Appliance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return Appliance{}, false
	}
	return *r.items[idx], true
}

// List returns the appliances in insertion order.
func (r *Registry) List() []Appliance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appliance, len(r.items))
	for i, a := range r.items {
		out[i] = *a
	}
	return out
}

// Len returns the number of registered appliances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Registry) indexLocked(id string) int {
	for i, a := range r.items {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// TotalConsumption sums the monthly consumption of every appliance.
func (r *Registry) TotalConsumption() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.totalConsumptionLocked()
}

// TotalCost sums the monthly cost of every appliance.
func (r *Registry) TotalCost() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.totalCostLocked()
}

func (r *Registry) totalConsumptionLocked() float64 {
	var total float64
	for _, a := range r.items {
		total += a.MonthlyConsumption()
	}
	return total
}

func (r *Registry) totalCostLocked() float64 {
	var total float64
	for _, a := range r.items {
		total += a.MonthlyCost()
	}
	return total
}

// ConsumptionByCategory returns the monthly consumption per category id.
// Every known category is present, at zero when it has no appliances.
// Appliances with an unrecognised category id are summed under
// category.UnknownID, which only appears when such appliances exist.
func (r *Registry) ConsumptionByCategory() map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.consumptionByCategoryLocked()
}

func (r *Registry) consumptionByCategoryLocked() map[string]float64 {
	known := category.List()
	sums := make(map[string]float64, len(known))
	for _, c := range known {
		sums[c.ID] = 0
	}
	for _, a := range r.items {
		key := a.CategoryID
		if _, ok := category.Find(key); !ok {
			key = category.UnknownID
		}
		sums[key] += a.MonthlyConsumption()
	}
	return sums
}

// ChartData returns value, label and color sequences for every category
// with strictly positive consumption, in category order. The unknown bucket
// comes last.
func (r *Registry) ChartData() ChartData {
	sums := r.ConsumptionByCategory()

	data := ChartData{
		Values: []float64{},
		Labels: []string{},
		Colors: []string{},
	}
	for _, c := range append(category.List(), category.Unknown) {
		if v := sums[c.ID]; v > 0 {
			data.Values = append(data.Values, v)
			data.Labels = append(data.Labels, c.DisplayName)
			data.Colors = append(data.Colors, c.Color)
		}
	}
	return data
}

// Summary returns the totals and per-category sums from a single read.
func (r *Registry) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Summary{
		Count:                 len(r.items),
		TotalConsumptionKWh:   r.totalConsumptionLocked(),
		TotalCost:             r.totalCostLocked(),
		ConsumptionByCategory: r.consumptionByCategoryLocked(),
	}
}

// Persist writes the whole collection, overwriting what was stored.
func (r *Registry) Persist(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persistLocked(ctx)
}

func (r *Registry) persistLocked(ctx context.Context) error {
	snapshots := make([]Snapshot, len(r.items))
	for i, a := range r.items {
		snapshots[i] = a.Serialize()
	}
	if err := r.persistence.Save(ctx, snapshots); err != nil {
		r.logger.Error("failed to persist appliances", "count", len(snapshots), "error", err)
		return fmt.Errorf("persisting appliances: %w", err)
	}
	return nil
}

// Restore replaces the collection with the persisted one. Nothing stored
// yields an empty registry. Corrupt stored content is logged and also
// yields an empty registry; it is not reported to the caller. Other load
// failures are returned and leave the collection untouched.
func (r *Registry) Restore(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.persistence.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrCorruptSnapshot) {
			r.logger.Error("stored appliances are corrupt, starting empty", "error", err)
			r.items = nil
			return nil
		}
		return fmt.Errorf("loading appliances: %w", err)
	}

	items := make([]*Appliance, len(records))
	for i, rec := range records {
		a := FromRecord(rec)
		items[i] = &a
	}
	r.items = items
	r.logger.Info("appliances restored", "count", len(items))
	return nil
}

// DefaultExamples are the appliances offered to a new user as a reference.
var DefaultExamples = []Fields{
	{Name: "Refrigerador", CategoryID: "cocina", PowerWatts: 150, HoursPerDay: 24, DaysPerMonth: 30, TariffPerKWh: 0.12},
	{Name: `Televisor LED 40"`, CategoryID: "entretenimiento", PowerWatts: 100, HoursPerDay: 4, DaysPerMonth: 30, TariffPerKWh: 0.12},
	{Name: "Bombilla LED", CategoryID: "iluminacion", PowerWatts: 9, HoursPerDay: 5, DaysPerMonth: 30, TariffPerKWh: 0.12},
}

// SeedDefaults adds DefaultExamples when the registry is empty and reports
// whether it did.
func (r *Registry) SeedDefaults(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.items) > 0 {
		return false, nil
	}
	for _, f := range DefaultExamples {
		a := New(r.newID(), f.Name, f.CategoryID, f.PowerWatts, f.HoursPerDay, f.DaysPerMonth, f.TariffPerKWh)
		r.items = append(r.items, &a)
	}
	r.logger.Info("seeded example appliances", "count", len(DefaultExamples))
	return true, r.persistLocked(ctx)
}
