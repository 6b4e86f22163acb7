package appliance

import (
	"encoding/json"
	"math"
)

// finite returns nil for NaN and ±Inf so they encode as JSON null.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Record
		MonthlyConsumptionKWh *float64 `json:"monthlyConsumptionKWh"`
		MonthlyCostOfMoney    *float64 `json:"monthlyCostOfMoney"`
	}{
		Record:                s.Record,
		MonthlyConsumptionKWh: finite(s.MonthlyConsumptionKWh),
		MonthlyCostOfMoney:    finite(s.MonthlyCostOfMoney),
	})
}

// MarshalJSON implements json.Marshaler.
func (s Summary) MarshalJSON() ([]byte, error) {
	byCategory := make(map[string]*float64, len(s.ConsumptionByCategory))
	for id, v := range s.ConsumptionByCategory {
		byCategory[id] = finite(v)
	}
	return json.Marshal(struct {
		Count                 int                 `json:"count"`
		TotalConsumptionKWh   *float64            `json:"totalConsumptionKWh"`
		TotalCost             *float64            `json:"totalCost"`
		ConsumptionByCategory map[string]*float64 `json:"consumptionByCategory"`
	}{
		Count:                 s.Count,
		TotalConsumptionKWh:   finite(s.TotalConsumptionKWh),
		TotalCost:             finite(s.TotalCost),
		ConsumptionByCategory: byCategory,
	})
}

// MarshalJSON implements json.Marshaler.
func (d ChartData) MarshalJSON() ([]byte, error) {
	values := make([]*float64, len(d.Values))
	for i, v := range d.Values {
		values[i] = finite(v)
	}
	labels, colors := d.Labels, d.Colors
	if labels == nil {
		labels = []string{}
	}
	if colors == nil {
		colors = []string{}
	}
	return json.Marshal(struct {
		Values []*float64 `json:"values"`
		Labels []string   `json:"labels"`
		Colors []string   `json:"colors"`
	}{values, labels, colors})
}
