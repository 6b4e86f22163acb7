package appliance

// Record is the persisted form of an appliance.
type Record struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CategoryID   string  `json:"categoryId"`
	PowerWatts   float64 `json:"powerWatts"`
	HoursPerDay  float64 `json:"hoursPerDay"`
	DaysPerMonth float64 `json:"daysPerMonth"`
	TariffPerKWh float64 `json:"tariffPerKWh"`
}

// Snapshot is a Record plus the derived metrics at export time. Derived
// values are informational and never read back.
type Snapshot struct {
	Record
	MonthlyConsumptionKWh float64 `json:"monthlyConsumptionKWh"`
	MonthlyCostOfMoney    float64 `json:"monthlyCostOfMoney"`
}

// FromRecord rebuilds an appliance from its stored fields.
func FromRecord(r Record) Appliance {
	return New(r.ID, r.Name, r.CategoryID, r.PowerWatts, r.HoursPerDay, r.DaysPerMonth, r.TariffPerKWh)
}
