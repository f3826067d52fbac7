package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Slot names one of the four pillar positions.
type Slot int

// Pillar positions in chart order.
const (
	YearSlot Slot = iota
	MonthSlot
	DaySlot
	HourSlot
)

// Slots lists the pillar positions in chart order.
var Slots = [4]Slot{YearSlot, MonthSlot, DaySlot, HourSlot}

func (s Slot) String() string {
	switch s {
	case YearSlot:
		return "Year"
	case MonthSlot:
		return "Month"
	case DaySlot:
		return "Day"
	case HourSlot:
		return "Hour"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

// MarshalText encodes the slot by name.
func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Pillar is one stem/branch pair.
type Pillar struct {
	Stem   Stem   `json:"stem"`
	Branch Branch `json:"branch"`
}

// Validate returns ErrUnknownSymbol if either index is outside its table.
func (p Pillar) Validate() error {
	if err := CheckStem(p.Stem); err != nil {
		return err
	}
	return CheckBranch(p.Branch)
}

// String renders the two glyphs, e.g. "甲子".
func (p Pillar) String() string {
	return p.Stem.String() + p.Branch.String()
}

// ParsePillar parses a two-glyph pillar such as "甲子".
func ParsePillar(text string) (Pillar, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) != 2 {
		return Pillar{}, fmt.Errorf("%w: pillar %q", ErrUnknownSymbol, text)
	}
	first, size := utf8.DecodeRuneInString(text)
	stem, err := ParseStem(string(first))
	if err != nil {
		return Pillar{}, err
	}
	branch, err := ParseBranch(text[size:])
	if err != nil {
		return Pillar{}, err
	}
	return Pillar{Stem: stem, Branch: branch}, nil
}

// Chart is the four pillars of a birth moment.
type Chart struct {
	Year  Pillar `json:"year"`
	Month Pillar `json:"month"`
	Day   Pillar `json:"day"`
	Hour  Pillar `json:"hour"`
}

// Pillar returns the pillar at slot s.
func (c Chart) Pillar(s Slot) Pillar {
	switch s {
	case YearSlot:
		return c.Year
	case MonthSlot:
		return c.Month
	case DaySlot:
		return c.Day
	default:
		return c.Hour
	}
}

// Pillars returns the four pillars in chart order.
func (c Chart) Pillars() [4]Pillar {
	return [4]Pillar{c.Year, c.Month, c.Day, c.Hour}
}

// DayMaster is the visible stem of the day pillar.
func (c Chart) DayMaster() Stem {
	return c.Day.Stem
}

// Validate checks every pillar.
func (c Chart) Validate() error {
	for _, s := range Slots {
		if err := c.Pillar(s).Validate(); err != nil {
			return fmt.Errorf("%s pillar: %w", s, err)
		}
	}
	return nil
}

// Key is a stable identity for the chart, e.g. "甲子 乙丑 丙寅 丁卯".
func (c Chart) Key() string {
	return strings.Join([]string{c.Year.String(), c.Month.String(), c.Day.String(), c.Hour.String()}, " ")
}

// ParseChart parses four glyph pillars in year, month, day, hour order.
func ParseChart(year, month, day, hour string) (Chart, error) {
	var (
		c   Chart
		err error
	)
	inputs := [4]string{year, month, day, hour}
	targets := [4]*Pillar{&c.Year, &c.Month, &c.Day, &c.Hour}
	for i, text := range inputs {
		if *targets[i], err = ParsePillar(text); err != nil {
			return Chart{}, fmt.Errorf("%s pillar: %w", Slots[i], err)
		}
	}
	return c, nil
}
