package features

import (
	"fmt"
	"strconv"
	"strings"

	"homepick/pkg/property"
)

type Kind string

const (
	KindCurrency Kind = "currency"
	KindArea     Kind = "area"
	KindCount    Kind = "count"
	KindYear     Kind = "year"
	KindText     Kind = "text"
	KindList     Kind = "list"
	KindDistance Kind = "distance"
)

const (
	BetterNone   = ""
	BetterLower  = "lower"
	BetterHigher = "higher"
)

// significantSpread marks a numeric row worth surfacing when the spread
// across selected properties exceeds this fraction of their average.
const significantSpread = 0.10

type Row struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Kind   Kind   `json:"kind"`
	Better string `json:"better"`
}

type Category struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

type Cell struct {
	Display   string  `json:"display"`
	Raw       float64 `json:"raw"`
	Available bool    `json:"available"`
	Best      bool    `json:"best"`
	Worst     bool    `json:"worst"`
}

type RowResult struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	Kind      Kind   `json:"kind"`
	Values    []Cell `json:"values"`
	Highlight bool   `json:"highlight"`
}

type CategoryResult struct {
	Name string      `json:"name"`
	Rows []RowResult `json:"rows"`
}

type Matrix struct {
	Categories []CategoryResult `json:"categories"`
}

// Catalog is the fixed set of comparable rows, grouped the way the
// comparison page renders them.
func Catalog() []Category {
	return []Category{
		{
			Name: "Price & Size",
			Rows: []Row{
				{Key: "price", Label: "Price", Icon: "price", Kind: KindCurrency, Better: BetterLower},
				{Key: "price_per_area", Label: "Price per m²", Icon: "price", Kind: KindCurrency, Better: BetterLower},
				{Key: "area", Label: "Area", Icon: "area", Kind: KindArea, Better: BetterHigher},
			},
		},
		{
			Name: "Layout",
			Rows: []Row{
				{Key: "bedrooms", Label: "Bedrooms", Icon: "bed", Kind: KindCount, Better: BetterHigher},
				{Key: "bathrooms", Label: "Bathrooms", Icon: "bath", Kind: KindCount, Better: BetterHigher},
				{Key: "floors", Label: "Floors", Icon: "stairs", Kind: KindCount, Better: BetterNone},
				{Key: "garage", Label: "Garage spaces", Icon: "garage", Kind: KindCount, Better: BetterNone},
			},
		},
		{
			Name: "Location",
			Rows: []Row{
				{Key: "address", Label: "Address", Icon: "pin", Kind: KindText, Better: BetterNone},
				{Key: "city", Label: "City", Icon: "city", Kind: KindText, Better: BetterNone},
				{Key: "province", Label: "Province", Icon: "map", Kind: KindText, Better: BetterNone},
			},
		},
		{
			Name: "Features",
			Rows: []Row{
				{Key: "property_type", Label: "Type", Icon: "home", Kind: KindText, Better: BetterNone},
				{Key: "year_built", Label: "Year built", Icon: "calendar", Kind: KindYear, Better: BetterNone},
				{Key: "heating", Label: "Heating", Icon: "heat", Kind: KindText, Better: BetterNone},
				{Key: "cooling", Label: "Cooling", Icon: "cool", Kind: KindText, Better: BetterNone},
				{Key: "amenities", Label: "Amenities", Icon: "star", Kind: KindList, Better: BetterNone},
			},
		},
	}
}

// Compare builds the annotated comparison matrix for the given properties.
// Pure: no I/O, no mutation of the input. With fewer than 2 properties the
// matrix still renders, just without meaningful tags or highlights.
func Compare(props []property.Summary) Matrix {
	matrix := Matrix{Categories: []CategoryResult{}}
	for _, category := range Catalog() {
		result := CategoryResult{Name: category.Name, Rows: []RowResult{}}
		for _, row := range category.Rows {
			result.Rows = append(result.Rows, compareRow(row, props))
		}
		matrix.Categories = append(matrix.Categories, result)
	}
	return matrix
}

func compareRow(row Row, props []property.Summary) RowResult {
	result := RowResult{
		Key:    row.Key,
		Label:  row.Label,
		Icon:   row.Icon,
		Kind:   row.Kind,
		Values: make([]Cell, 0, len(props)),
	}
	switch row.Kind {
	case KindCurrency, KindArea, KindCount, KindDistance:
		for _, p := range props {
			raw, available := numericValue(row.Key, p)
			result.Values = append(result.Values, Cell{
				Display:   formatValue(row.Kind, raw, available),
				Raw:       raw,
				Available: available,
			})
		}
		tagBestWorst(row, result.Values)
		result.Highlight = numericHighlight(result.Values)
	case KindYear:
		for _, p := range props {
			raw, available := numericValue(row.Key, p)
			result.Values = append(result.Values, Cell{
				Display:   formatValue(row.Kind, raw, available),
				Raw:       raw,
				Available: available,
			})
		}
		result.Highlight = allPairwiseDiffer(displays(result.Values))
	case KindText, KindList:
		texts := make([]string, 0, len(props))
		for _, p := range props {
			text := textValue(row.Key, p)
			display := text
			if display == "" {
				display = "N/A"
			}
			texts = append(texts, text)
			result.Values = append(result.Values, Cell{
				Display:   display,
				Available: text != "",
			})
		}
		result.Highlight = allPairwiseDiffer(texts)
	}
	return result
}

// tagBestWorst marks min/max among available values according to the row's
// direction. Ties get no tags at all.
func tagBestWorst(row Row, values []Cell) {
	if row.Better == BetterNone {
		return
	}
	minIdx, maxIdx := -1, -1
	for i, v := range values {
		if !v.Available {
			continue
		}
		if minIdx == -1 || v.Raw < values[minIdx].Raw {
			minIdx = i
		}
		if maxIdx == -1 || v.Raw > values[maxIdx].Raw {
			maxIdx = i
		}
	}
	if minIdx == -1 || values[minIdx].Raw == values[maxIdx].Raw {
		return
	}
	if row.Better == BetterLower {
		values[minIdx].Best = true
		values[maxIdx].Worst = true
	} else {
		values[maxIdx].Best = true
		values[minIdx].Worst = true
	}
}

func numericHighlight(values []Cell) bool {
	var min, max, sum float64
	count := 0
	for _, v := range values {
		if !v.Available {
			continue
		}
		if count == 0 || v.Raw < min {
			min = v.Raw
		}
		if count == 0 || v.Raw > max {
			max = v.Raw
		}
		sum += v.Raw
		count++
	}
	if count < 2 {
		return false
	}
	avg := sum / float64(count)
	return (max - min) > significantSpread*avg
}

func allPairwiseDiffer(values []string) bool {
	if len(values) < 2 {
		return false
	}
	seen := map[string]bool{}
	for _, v := range values {
		if seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

func numericValue(key string, p property.Summary) (float64, bool) {
	switch key {
	case "price":
		return float64(p.Price), true
	case "price_per_area":
		if p.Area <= 0 {
			return 0, false
		}
		return float64(p.Price) / p.Area, true
	case "area":
		return p.Area, true
	case "bedrooms":
		return float64(p.Bedrooms), true
	case "bathrooms":
		return float64(p.Bathrooms), true
	case "floors":
		return float64(p.Floors), true
	case "garage":
		return float64(p.Garage), true
	case "year_built":
		if p.YearBuilt == 0 {
			return 0, false
		}
		return float64(p.YearBuilt), true
	}
	return 0, false
}

func textValue(key string, p property.Summary) string {
	switch key {
	case "address":
		return p.Address
	case "city":
		return p.City
	case "province":
		return p.Province
	case "property_type":
		return p.PropertyType
	case "heating":
		return p.Heating
	case "cooling":
		return p.Cooling
	case "amenities":
		return strings.Join(p.Amenities, ", ")
	}
	return ""
}

func formatValue(kind Kind, raw float64, available bool) string {
	if !available {
		return "N/A"
	}
	switch kind {
	case KindCurrency:
		return "$" + groupDigits(int64(raw+0.5))
	case KindArea:
		return groupDigits(int64(raw+0.5)) + " m²"
	case KindDistance:
		return strconv.FormatFloat(raw, 'f', 1, 64) + " km"
	case KindYear:
		return strconv.FormatInt(int64(raw), 10)
	default:
		return strconv.FormatInt(int64(raw), 10)
	}
}

func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func displays(values []Cell) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.Display)
	}
	return out
}
