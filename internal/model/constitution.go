package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Gate is the binary classification axis derived from the day stem polarity.
type Gate int

// Gates.
const (
	Dense Gate = iota
	Hollow
)

func (g Gate) String() string {
	if g == Hollow {
		return "hollow"
	}
	return "dense"
}

// MarshalJSON encodes the gate by name.
func (g Gate) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

// Respiration returns the respiratory type associated with the gate.
func (g Gate) Respiration() string {
	if g == Hollow {
		return "Exhalation"
	}
	return "Inhalation"
}

// Organ names one of the ten flow stations.
type Organ string

// The ten organs.
const (
	Stomach        Organ = "Stomach"
	Pancreas       Organ = "Pancreas"
	LargeIntestine Organ = "Large Intestine"
	Lungs          Organ = "Lungs"
	SmallIntestine Organ = "Small Intestine"
	Heart          Organ = "Heart"
	Gallbladder    Organ = "Gallbladder"
	Liver          Organ = "Liver"
	Bladder        Organ = "Bladder"
	Kidney         Organ = "Kidney"
)

var organElements = map[Organ]Element{
	Stomach:        Earth,
	Pancreas:       Earth,
	LargeIntestine: Metal,
	Lungs:          Metal,
	SmallIntestine: Fire,
	Heart:          Fire,
	Gallbladder:    Wood,
	Liver:          Wood,
	Bladder:        Water,
	Kidney:         Water,
}

// Element returns the organ's element. Unknown organs report ok=false.
func (o Organ) Element() (Element, bool) {
	e, ok := organElements[o]
	return e, ok
}

// Constitution is one of the eight fixed classification categories.
type Constitution int

// The eight constitutions.
const (
	Renotonia Constitution = iota
	Vesicotonia
	Pancreotonia
	Gastrotonia
	Pulmonotonia
	Colonotonia
	Hepatonia
	Cholecystonia
)

// ConstitutionCount is the size of the registry.
const ConstitutionCount = 8

// ConstitutionInfo is the static reference record for a constitution.
type ConstitutionInfo struct {
	Name     string
	Gate     Gate
	Family   Element
	Flow     [5]Organ
	Sibling  Constitution
	Opposite Constitution
}

var constitutions = [ConstitutionCount]ConstitutionInfo{
	Renotonia: {
		Name: "Renotonia", Gate: Dense, Family: Water,
		Flow:    [5]Organ{Kidney, Lungs, Liver, Heart, Pancreas},
		Sibling: Vesicotonia, Opposite: Pancreotonia,
	},
	Vesicotonia: {
		Name: "Vesicotonia", Gate: Hollow, Family: Water,
		Flow:    [5]Organ{Bladder, Gallbladder, SmallIntestine, LargeIntestine, Stomach},
		Sibling: Renotonia, Opposite: Gastrotonia,
	},
	Pancreotonia: {
		Name: "Pancreotonia", Gate: Dense, Family: Earth,
		Flow:    [5]Organ{Pancreas, Heart, Liver, Lungs, Kidney},
		Sibling: Gastrotonia, Opposite: Renotonia,
	},
	Gastrotonia: {
		Name: "Gastrotonia", Gate: Hollow, Family: Earth,
		Flow:    [5]Organ{Stomach, LargeIntestine, SmallIntestine, Gallbladder, Bladder},
		Sibling: Pancreotonia, Opposite: Vesicotonia,
	},
	Pulmonotonia: {
		Name: "Pulmonotonia", Gate: Dense, Family: Metal,
		Flow:    [5]Organ{Lungs, Pancreas, Heart, Kidney, Liver},
		Sibling: Colonotonia, Opposite: Hepatonia,
	},
	Colonotonia: {
		Name: "Colonotonia", Gate: Hollow, Family: Metal,
		Flow:    [5]Organ{LargeIntestine, Bladder, Stomach, SmallIntestine, Gallbladder},
		Sibling: Pulmonotonia, Opposite: Cholecystonia,
	},
	Hepatonia: {
		Name: "Hepatonia", Gate: Dense, Family: Wood,
		Flow:    [5]Organ{Liver, Kidney, Heart, Pancreas, Lungs},
		Sibling: Cholecystonia, Opposite: Pulmonotonia,
	},
	Cholecystonia: {
		Name: "Cholecystonia", Gate: Hollow, Family: Wood,
		Flow:    [5]Organ{Gallbladder, SmallIntestine, Stomach, Bladder, LargeIntestine},
		Sibling: Hepatonia, Opposite: Colonotonia,
	},
}

// Canonical candidate order per gate. Selection iterates these lists and never a map.
var (
	hollowCandidates = [4]Constitution{Gastrotonia, Cholecystonia, Vesicotonia, Colonotonia}
	denseCandidates  = [4]Constitution{Pancreotonia, Hepatonia, Renotonia, Pulmonotonia}
)

// CandidatesFor returns the four constitutions admitted by gate g in canonical order.
func CandidatesFor(g Gate) [4]Constitution {
	if g == Hollow {
		return hollowCandidates
	}
	return denseCandidates
}

// Constitutions lists all eight in registry order.
func Constitutions() [ConstitutionCount]Constitution {
	var out [ConstitutionCount]Constitution
	for i := range out {
		out[i] = Constitution(i)
	}
	return out
}

// Valid reports whether c is in the registry.
func (c Constitution) Valid() bool { return c >= 0 && c < ConstitutionCount }

// Info returns the static record for c. It panics on an unregistered value.
func (c Constitution) Info() ConstitutionInfo {
	if !c.Valid() {
		panic(fmt.Sprintf("constitution out of range: %d", int(c)))
	}
	return constitutions[c]
}

func (c Constitution) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Constitution(%d)", int(c))
	}
	return constitutions[c].Name
}

// Gate returns the constitution's gate.
func (c Constitution) Gate() Gate { return c.Info().Gate }

// Flow returns the fixed five-organ flow.
func (c Constitution) Flow() [5]Organ { return c.Info().Flow }

// Family returns the family element shared with the sibling.
func (c Constitution) Family() Element { return c.Info().Family }

// Sibling returns the same-family constitution of the opposite gate.
func (c Constitution) Sibling() Constitution { return c.Info().Sibling }

// Opposite returns the cross-family mirror whose flow is this flow reversed.
func (c Constitution) Opposite() Constitution { return c.Info().Opposite }

// MarshalJSON encodes the constitution by name.
func (c Constitution) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: constitution %d", ErrUnknownSymbol, int(c))
	}
	return json.Marshal(c.String())
}

// ParseConstitution looks a constitution up by name, case-insensitively.
func ParseConstitution(name string) (Constitution, error) {
	name = strings.TrimSpace(name)
	for i, info := range constitutions {
		if strings.EqualFold(info.Name, name) {
			return Constitution(i), nil
		}
	}
	return 0, fmt.Errorf("%w: constitution %q", ErrUnknownSymbol, name)
}
