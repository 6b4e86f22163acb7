package appliance

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_MarshalJSON(t *testing.T) {
	testCases := []struct {
		name     string
		in       Appliance
		expected string
	}{
		{
			name: "finite values",
			in:   New("a1", "Lamp", "iluminacion", 10, 5, 30, 0.1),
			expected: `{"id":"a1","name":"Lamp","categoryId":"iluminacion","powerWatts":10,"hoursPerDay":5,
				"daysPerMonth":30,"tariffPerKWh":0.1,"monthlyConsumptionKWh":1.5,"monthlyCostOfMoney":0.15000000000000002}`,
		},
		{
			name: "overflow to infinity",
			in:   New("a2", "Huge", "otros", 1e200, 1e200, 1, 1),
			expected: `{"id":"a2","name":"Huge","categoryId":"otros","powerWatts":1e+200,"hoursPerDay":1e+200,
				"daysPerMonth":1,"tariffPerKWh":1,"monthlyConsumptionKWh":null,"monthlyCostOfMoney":null}`,
		},
		{
			name: "infinity times zero tariff",
			in:   New("a3", "Huge", "otros", 1e200, 1e200, 1, 0),
			expected: `{"id":"a3","name":"Huge","categoryId":"otros","powerWatts":1e+200,"hoursPerDay":1e+200,
				"daysPerMonth":1,"tariffPerKWh":0,"monthlyConsumptionKWh":null,"monthlyCostOfMoney":null}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.in.Serialize())
			require.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(b))

			var back Snapshot
			require.NoError(t, json.Unmarshal(b, &back))
			assert.Equal(t, tc.in.Record(), back.Record)
		})
	}
}

func TestSummaryAndChart_MarshalJSON_NonFinite(t *testing.T) {
	r, _ := newTestRegistry(t)
	_, err := r.Add(context.Background(), Fields{Name: "Huge", CategoryID: "cocina", PowerWatts: 1e200, HoursPerDay: 1e200, DaysPerMonth: 1, TariffPerKWh: 1})
	require.NoError(t, err)

	b, err := json.Marshal(r.Summary())
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":1,"totalConsumptionKWh":null,"totalCost":null,
		"consumptionByCategory":{"iluminacion":0,"cocina":null,"entretenimiento":0,"climatizacion":0,"otros":0}}`, string(b))

	chart := r.ChartData()
	require.Len(t, chart.Values, 1)
	assert.True(t, math.IsInf(chart.Values[0], 1))
	b, err = json.Marshal(chart)
	require.NoError(t, err)
	assert.JSONEq(t, `{"values":[null],"labels":["Cocina"],"colors":["rgba(220, 53, 69, 0.8)"]}`, string(b))

	b, err = json.Marshal(ChartData{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"values":[],"labels":[],"colors":[]}`, string(b))
}
