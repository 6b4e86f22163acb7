package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	quantityRe = regexp.MustCompile(`^([+-]?\d+(?:\.\d+)?|[+-]?\.\d+)\s*([a-zA-Z/$€]*)$`)
	tariffRe   = regexp.MustCompile(`^[$€]?\s*([+-]?\d+(?:\.\d+)?)\s*(?:/\s*kwh)?$`)
)

var powerUnits = map[string]float64{
	"":   1,
	"w":  1,
	"kw": 1000,
	"mw": 1000000,
}

var hourUnits = map[string]float64{
	"":        1,
	"h":       1,
	"hr":      1,
	"hrs":     1,
	"hora":    1,
	"horas":   1,
	"m":       1.0 / 60,
	"min":     1.0 / 60,
	"mins":    1.0 / 60,
	"minutos": 1.0 / 60,
}

var dayUnits = map[string]float64{
	"":     1,
	"d":    1,
	"dia":  1,
	"dias": 1,
}

// normalize trims the input and accepts a comma as the decimal separator.
func normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", ".")
	return s
}

func quantity(raw string, units map[string]float64, what string) (float64, error) {
	s := normalize(raw)
	m := quantityRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("unable to parse %s: %q", what, raw)
	}
	factor, ok := units[strings.ToLower(m[2])]
	if !ok {
		return 0, fmt.Errorf("unknown %s unit %q in %q", what, m[2], raw)
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse %s: %q: %w", what, raw, err)
	}
	return n * factor, nil
}

// Power returns the wattage described by raw, e.g. "150", "150W" or "1.5kW".
func Power(raw string) (float64, error) {
	return quantity(raw, powerUnits, "power")
}

// Hours returns the daily usage in hours, e.g. "24", "8h", "90min" or "1h30m".
func Hours(raw string) (float64, error) {
	if h, err := quantity(raw, hourUnits, "hours"); err == nil {
		return h, nil
	}
	// Compound forms such as "1h30m".
	d, err := time.ParseDuration(strings.ToLower(normalize(raw)))
	if err != nil {
		return 0, fmt.Errorf("unable to parse hours: %q", raw)
	}
	return d.Hours(), nil
}

// Days returns the number of usage days per month, e.g. "30" or "22d".
func Days(raw string) (float64, error) {
	return quantity(raw, dayUnits, "days")
}

// Tariff returns the price per kWh, e.g. "0.12", "$0.12" or "0.12/kWh".
func Tariff(raw string) (float64, error) {
	s := strings.ToLower(normalize(raw))
	m := tariffRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("unable to parse tariff: %q", raw)
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse tariff: %q: %w", raw, err)
	}
	return n, nil
}
