package model

import (
	"encoding/json"
	"fmt"
)

// Element is one of the five phases.
type Element int

// The five elements in generative-cycle order.
const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

// ElementCount is the number of elements.
const ElementCount = 5

// Elements lists every element in generative-cycle order.
var Elements = [ElementCount]Element{Wood, Fire, Earth, Metal, Water}

var elementNames = [ElementCount]string{"Wood", "Fire", "Earth", "Metal", "Water"}

// String returns the capitalized element name.
func (e Element) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Element(%d)", int(e))
	}
	return elementNames[e]
}

// Valid reports whether e is one of the five elements.
func (e Element) Valid() bool {
	return e >= Wood && e <= Water
}

// Child returns the element e generates (Wood→Fire→Earth→Metal→Water→Wood).
func (e Element) Child() Element {
	return (e + 1) % ElementCount
}

// Parent returns the element that generates e.
func (e Element) Parent() Element {
	return (e + ElementCount - 1) % ElementCount
}

// MarshalJSON encodes the element by name.
func (e Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON decodes an element name.
func (e *Element) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseElement(name)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseElement parses a capitalized element name.
func ParseElement(name string) (Element, error) {
	for i, n := range elementNames {
		if n == name {
			return Element(i), nil
		}
	}
	return 0, fmt.Errorf("%w: element %q", ErrUnknownSymbol, name)
}

// Polarity is Yang or Yin.
type Polarity int

// Polarities.
const (
	Yang Polarity = iota
	Yin
)

// String returns "Yang" or "Yin".
func (p Polarity) String() string {
	if p == Yin {
		return "Yin"
	}
	return "Yang"
}

// Opposite flips the polarity.
func (p Polarity) Opposite() Polarity {
	if p == Yin {
		return Yang
	}
	return Yin
}

// MarshalJSON encodes the polarity by name.
func (p Polarity) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// ElementCounts maps each element to a non-negative count.
type ElementCounts [ElementCount]int

// Total sums all five counts.
func (c ElementCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// MarshalJSON encodes counts as an object keyed by lowercase element name.
func (c ElementCounts) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Wood  int `json:"wood"`
		Fire  int `json:"fire"`
		Earth int `json:"earth"`
		Metal int `json:"metal"`
		Water int `json:"water"`
	}{c[Wood], c[Fire], c[Earth], c[Metal], c[Water]})
}

// PolarityCounts tallies Yang and Yin occurrences.
type PolarityCounts struct {
	Yang int `json:"yang"`
	Yin  int `json:"yin"`
}

// Add increments the counter for p.
func (c *PolarityCounts) Add(p Polarity) {
	if p == Yin {
		c.Yin++
		return
	}
	c.Yang++
}

// Total returns Yang+Yin.
func (c PolarityCounts) Total() int {
	return c.Yang + c.Yin
}
