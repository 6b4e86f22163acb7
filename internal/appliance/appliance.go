// Package appliance models registered household appliances, their derived
// monthly consumption and cost, and the registry that owns them.
package appliance

import "math"

// Appliance is a registered device with a power draw and a usage schedule.
type Appliance struct {
	ID           string
	Name         string
	CategoryID   string
	PowerWatts   float64
	HoursPerDay  float64
	DaysPerMonth float64
	TariffPerKWh float64
}

// Fields carries the caller-supplied attributes of a new appliance.
type Fields struct {
	Name         string  `json:"name"`
	CategoryID   string  `json:"categoryId"`
	PowerWatts   float64 `json:"powerWatts"`
	HoursPerDay  float64 `json:"hoursPerDay"`
	DaysPerMonth float64 `json:"daysPerMonth"`
	TariffPerKWh float64 `json:"tariffPerKWh"`
}

// PartialUpdate lists the fields to change. Nil fields are not provided.
type PartialUpdate struct {
	Name         *string  `json:"name,omitempty"`
	CategoryID   *string  `json:"categoryId,omitempty"`
	PowerWatts   *float64 `json:"powerWatts,omitempty"`
	HoursPerDay  *float64 `json:"hoursPerDay,omitempty"`
	DaysPerMonth *float64 `json:"daysPerMonth,omitempty"`
	TariffPerKWh *float64 `json:"tariffPerKWh,omitempty"`
}

// UpdatePolicy decides which provided fields of a PartialUpdate are applied.
type UpdatePolicy int

const (
	// IgnoreFalsy applies a provided field only when it is truthy: a
	// non-empty string, or a number that is neither zero nor NaN. An explicit
	// zero therefore cannot reset a numeric field. This is the legacy
	// behaviour of the registry and the default.
	IgnoreFalsy UpdatePolicy = iota

	// ApplyPresent applies every provided field, zero values included.
	ApplyPresent
)

// String implements fmt.Stringer.
func (p UpdatePolicy) String() string {
	switch p {
	case IgnoreFalsy:
		return "ignore_falsy"
	case ApplyPresent:
		return "apply_present"
	default:
		return "unknown"
	}
}

// ParseUpdatePolicy maps a config value to an UpdatePolicy. Empty selects
// IgnoreFalsy.
func ParseUpdatePolicy(s string) (UpdatePolicy, bool) {
	switch s {
	case "", "ignore_falsy":
		return IgnoreFalsy, true
	case "apply_present":
		return ApplyPresent, true
	default:
		return IgnoreFalsy, false
	}
}

// New builds an appliance from all of its stored fields. Nothing is
// validated; negative or zero values flow into the derived metrics as is.
func New(id, name, categoryID string, powerWatts, hoursPerDay, daysPerMonth, tariffPerKWh float64) Appliance {
	return Appliance{
		ID:           id,
		Name:         name,
		CategoryID:   categoryID,
		PowerWatts:   powerWatts,
		HoursPerDay:  hoursPerDay,
		DaysPerMonth: daysPerMonth,
		TariffPerKWh: tariffPerKWh,
	}
}

// MonthlyConsumption returns the energy used per month in kWh.
func (a *Appliance) MonthlyConsumption() float64 {
	return a.PowerWatts * a.HoursPerDay * a.DaysPerMonth / 1000
}

// MonthlyCost returns the monthly consumption priced at the appliance tariff.
func (a *Appliance) MonthlyCost() float64 {
	return a.MonthlyConsumption() * a.TariffPerKWh
}

// Update applies the provided fields of u according to policy.
func (a *Appliance) Update(u PartialUpdate, policy UpdatePolicy) {
	applyString(&a.Name, u.Name, policy)
	applyString(&a.CategoryID, u.CategoryID, policy)
	applyNumber(&a.PowerWatts, u.PowerWatts, policy)
	applyNumber(&a.HoursPerDay, u.HoursPerDay, policy)
	applyNumber(&a.DaysPerMonth, u.DaysPerMonth, policy)
	applyNumber(&a.TariffPerKWh, u.TariffPerKWh, policy)
}

func applyString(dst *string, v *string, policy UpdatePolicy) {
	if v == nil {
		return
	}
	if policy == IgnoreFalsy && *v == "" {
		return
	}
	*dst = *v
}

func applyNumber(dst *float64, v *float64, policy UpdatePolicy) {
	if v == nil {
		return
	}
	if policy == IgnoreFalsy && (*v == 0 || math.IsNaN(*v)) {
		return
	}
	*dst = *v
}

// Serialize exports the stored fields together with the derived metrics at
// the time of the call.
func (a *Appliance) Serialize() Snapshot {
	return Snapshot{
		Record:                a.Record(),
		MonthlyConsumptionKWh: a.MonthlyConsumption(),
		MonthlyCostOfMoney:    a.MonthlyCost(),
	}
}

// Record returns the stored fields only.
func (a *Appliance) Record() Record {
	return Record{
		ID:           a.ID,
		Name:         a.Name,
		CategoryID:   a.CategoryID,
		PowerWatts:   a.PowerWatts,
		HoursPerDay:  a.HoursPerDay,
		DaysPerMonth: a.DaysPerMonth,
		TariffPerKWh: a.TariffPerKWh,
	}
}
