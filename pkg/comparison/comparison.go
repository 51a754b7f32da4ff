package comparison

import (
	"encoding/json"
	"fmt"

	"homepick/pkg/property"
)

// MaxItems is the hard cap on properties held in one comparison set.
const MaxItems = 3

type State struct {
	Selected   []property.Summary `json:"properties"`
	Count      int                `json:"count"`
	MaxReached bool               `json:"max_reached"`
}

// Set is a bounded ordered collection of property summaries, keyed by
// property id, no duplicates. All methods mutate in place; the Set itself
// carries no persistence or notification concerns.
type Set struct {
	selected []property.Summary
}

func NewSet() *Set {
	return &Set{
		selected: []property.Summary{},
	}
}

// RestoreSet rebuilds a set from a previously stored snapshot. Anything that
// violates the set's shape (over the cap, duplicate or empty ids) discards
// the whole snapshot and starts empty rather than failing.
func RestoreSet(summaries []property.Summary) *Set {
	if err := validateSnapshot(summaries); err != nil {
		return NewSet()
	}
	selected := make([]property.Summary, len(summaries))
	copy(selected, summaries)
	return &Set{
		selected: selected,
	}
}

func (s *Set) Snapshot() State {
	selected := make([]property.Summary, len(s.selected))
	copy(selected, s.selected)
	return State{
		Selected:   selected,
		Count:      len(selected),
		MaxReached: len(selected) >= MaxItems,
	}
}

func (s *Set) Add(p property.Summary) bool {
	if p.Id == "" {
		return false
	}
	if s.IsSelected(p.Id) {
		return false
	}
	if !s.CanAddMore() {
		return false
	}
	s.selected = append(s.selected, p)
	return true
}

func (s *Set) Remove(propertyId string) bool {
	for i, p := range s.selected {
		if p.Id == propertyId {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Set) Toggle(p property.Summary) bool {
	if s.IsSelected(p.Id) {
		return s.Remove(p.Id)
	}
	return s.Add(p)
}

func (s *Set) ClearAll() {
	s.selected = []property.Summary{}
}

func (s *Set) CanAddMore() bool {
	return len(s.selected) < MaxItems
}

func (s *Set) IsSelected(propertyId string) bool {
	for _, p := range s.selected {
		if p.Id == propertyId {
			return true
		}
	}
	return false
}

// DecodeSnapshot parses a stored snapshot and checks its shape. Storage
// content is untrusted: a non-array, an oversized array or broken entries
// all come back as an error so the caller can reset to empty.
func DecodeSnapshot(raw []byte) ([]property.Summary, error) {
	var summaries []property.Summary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return nil, fmt.Errorf("snapshot is not a property array: %s", err.Error())
	}
	if err := validateSnapshot(summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func validateSnapshot(summaries []property.Summary) error {
	if len(summaries) > MaxItems {
		return fmt.Errorf("snapshot holds %d properties, max is %d", len(summaries), MaxItems)
	}
	seen := map[string]bool{}
	for _, p := range summaries {
		if p.Id == "" {
			return fmt.Errorf("snapshot entry without id")
		}
		if seen[p.Id] {
			return fmt.Errorf("snapshot holds duplicate id %s", p.Id)
		}
		seen[p.Id] = true
	}
	return nil
}
