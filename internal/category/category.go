// Package category holds the fixed set of appliance categories used to
// group consumption for aggregation and display.
package category

// Category is a fixed classification bucket for appliances.
type Category struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// UnknownID is the grouping key used for appliances whose category id does
// not match any known category.
const UnknownID = "sin_categoria"

// Unknown is the synthetic bucket for unrecognised category ids. It is not
// part of List.
var Unknown = Category{
	ID:          UnknownID,
	DisplayName: "Sin categoría",
	Color:       "rgba(73, 80, 87, 0.8)",
	Icon:        "fa-question",
}

var categories = [...]Category{
	{ID: "iluminacion", DisplayName: "Iluminación", Color: "rgba(255, 193, 7, 0.8)", Icon: "fa-lightbulb"},
	{ID: "cocina", DisplayName: "Cocina", Color: "rgba(220, 53, 69, 0.8)", Icon: "fa-utensils"},
	{ID: "entretenimiento", DisplayName: "Entretenimiento", Color: "rgba(13, 110, 253, 0.8)", Icon: "fa-tv"},
	{ID: "climatizacion", DisplayName: "Climatización", Color: "rgba(25, 135, 84, 0.8)", Icon: "fa-temperature-high"},
	{ID: "otros", DisplayName: "Otros", Color: "rgba(108, 117, 125, 0.8)", Icon: "fa-plug"},
}

// List returns the five known categories in their fixed order.
func List() []Category {
	out := make([]Category, len(categories))
	copy(out, categories[:])
	return out
}

// Find looks up a known category by id.
func Find(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Colors returns the category colors in listing order.
func Colors() []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.Color)
	}
	return out
}

// Names returns the category display names in listing order.
func Names() []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.DisplayName)
	}
	return out
}
