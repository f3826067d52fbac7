package model

import (
	"encoding/json"
	"fmt"
	"strings"

	gopinyin "github.com/mozillazg/go-pinyin"
)

// StemCount and BranchCount are the sizes of the two cycles.
const (
	StemCount   = 10
	BranchCount = 12
)

// Stem is a heavenly stem index in [0,10).
type Stem int

// Branch is an earthly branch index in [0,12).
type Branch int

type stemInfo struct {
	glyph    string
	name     string
	element  Element
	polarity Polarity
}

type branchInfo struct {
	glyph    string
	name     string
	animal   string
	element  Element
	polarity Polarity
	hidden   []Stem
}

var stemTable = [StemCount]stemInfo{
	{"甲", "Jia", Wood, Yang},
	{"乙", "Yi", Wood, Yin},
	{"丙", "Bing", Fire, Yang},
	{"丁", "Ding", Fire, Yin},
	{"戊", "Wu", Earth, Yang},
	{"己", "Ji", Earth, Yin},
	{"庚", "Geng", Metal, Yang},
	{"辛", "Xin", Metal, Yin},
	{"壬", "Ren", Water, Yang},
	{"癸", "Gui", Water, Yin},
}

// Hidden stems are listed main qi first.
var branchTable = [BranchCount]branchInfo{
	{"子", "Zi", "Rat", Water, Yang, []Stem{9}},
	{"丑", "Chou", "Ox", Earth, Yin, []Stem{5, 9, 7}},
	{"寅", "Yin", "Tiger", Wood, Yang, []Stem{0, 2, 4}},
	{"卯", "Mao", "Rabbit", Wood, Yin, []Stem{1}},
	{"辰", "Chen", "Dragon", Earth, Yang, []Stem{4, 1, 9}},
	{"巳", "Si", "Snake", Fire, Yin, []Stem{2, 6, 4}},
	{"午", "Wu", "Horse", Fire, Yang, []Stem{3, 5}},
	{"未", "Wei", "Goat", Earth, Yin, []Stem{5, 1, 3}},
	{"申", "Shen", "Monkey", Metal, Yang, []Stem{6, 8, 4}},
	{"酉", "You", "Rooster", Metal, Yin, []Stem{7}},
	{"戌", "Xu", "Dog", Earth, Yang, []Stem{4, 7, 3}},
	{"亥", "Hai", "Pig", Water, Yin, []Stem{8, 0}},
}

// glyphPinyin holds tone-marked readings for every stem and branch glyph.
var glyphPinyin = buildGlyphPinyin()

func buildGlyphPinyin() map[string]string {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone

	out := make(map[string]string, StemCount+BranchCount)
	add := func(glyph string) {
		readings := gopinyin.Pinyin(glyph, args)
		if len(readings) > 0 && len(readings[0]) > 0 {
			out[glyph] = readings[0][0]
		}
	}
	for _, s := range stemTable {
		add(s.glyph)
	}
	for _, b := range branchTable {
		add(b.glyph)
	}
	return out
}

// Valid reports whether s is inside the stem table.
func (s Stem) Valid() bool { return s >= 0 && s < StemCount }

// Glyph returns the Chinese character.
func (s Stem) Glyph() string { return s.info().glyph }

// Name returns the romanized name.
func (s Stem) Name() string { return s.info().name }

// Element returns the stem's element.
func (s Stem) Element() Element { return s.info().element }

// Polarity returns the stem's polarity.
func (s Stem) Polarity() Polarity { return s.info().polarity }

// Pinyin returns the tone-marked reading, falling back to the romanized name.
func (s Stem) Pinyin() string {
	if p, ok := glyphPinyin[s.Glyph()]; ok {
		return p
	}
	return strings.ToLower(s.Name())
}

// Label formats the element with polarity, e.g. "Yang Wood".
func (s Stem) Label() string {
	return s.Polarity().String() + " " + s.Element().String()
}

func (s Stem) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stem(%d)", int(s))
	}
	return s.Glyph()
}

func (s Stem) info() stemInfo {
	if !s.Valid() {
		panic(fmt.Sprintf("stem index out of range: %d", int(s)))
	}
	return stemTable[s]
}

// MarshalJSON encodes the stem by glyph.
func (s Stem) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: stem %d", ErrUnknownSymbol, int(s))
	}
	return json.Marshal(s.Glyph())
}

// UnmarshalJSON decodes a stem glyph or romanized name.
func (s *Stem) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseStem(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Valid reports whether b is inside the branch table.
func (b Branch) Valid() bool { return b >= 0 && b < BranchCount }

// Glyph returns the Chinese character.
func (b Branch) Glyph() string { return b.info().glyph }

// Name returns the romanized name.
func (b Branch) Name() string { return b.info().name }

// Animal returns the zodiac animal.
func (b Branch) Animal() string { return b.info().animal }

// Element returns the branch's primary element.
func (b Branch) Element() Element { return b.info().element }

// Polarity returns the branch's primary polarity.
func (b Branch) Polarity() Polarity { return b.info().polarity }

// HiddenStems returns a copy of the branch's hidden stems, main qi first.
func (b Branch) HiddenStems() []Stem {
	hidden := b.info().hidden
	out := make([]Stem, len(hidden))
	copy(out, hidden)
	return out
}

// Pinyin returns the tone-marked reading, falling back to the romanized name.
func (b Branch) Pinyin() string {
	if p, ok := glyphPinyin[b.Glyph()]; ok {
		return p
	}
	return strings.ToLower(b.Name())
}

// Label formats the primary element with polarity, e.g. "Yang Water".
func (b Branch) Label() string {
	return b.Polarity().String() + " " + b.Element().String()
}

func (b Branch) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Branch(%d)", int(b))
	}
	return b.Glyph()
}

func (b Branch) info() branchInfo {
	if !b.Valid() {
		panic(fmt.Sprintf("branch index out of range: %d", int(b)))
	}
	return branchTable[b]
}

// MarshalJSON encodes the branch by glyph.
func (b Branch) MarshalJSON() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: branch %d", ErrUnknownSymbol, int(b))
	}
	return json.Marshal(b.Glyph())
}

// UnmarshalJSON decodes a branch glyph or romanized name.
func (b *Branch) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseBranch(text)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseStem accepts a glyph ("甲") or a romanized name ("Jia", case-insensitive).
func ParseStem(text string) (Stem, error) {
	text = strings.TrimSpace(text)
	for i, s := range stemTable {
		if s.glyph == text || strings.EqualFold(s.name, text) {
			return Stem(i), nil
		}
	}
	return 0, fmt.Errorf("%w: stem %q", ErrUnknownSymbol, text)
}

// ParseBranch accepts a glyph ("子") or a romanized name ("Zi", case-insensitive).
func ParseBranch(text string) (Branch, error) {
	text = strings.TrimSpace(text)
	for i, b := range branchTable {
		if b.glyph == text || strings.EqualFold(b.name, text) {
			return Branch(i), nil
		}
	}
	return 0, fmt.Errorf("%w: branch %q", ErrUnknownSymbol, text)
}

// CheckStem returns ErrUnknownSymbol for indices outside the table.
func CheckStem(s Stem) error {
	if !s.Valid() {
		return fmt.Errorf("%w: stem %d", ErrUnknownSymbol, int(s))
	}
	return nil
}

// CheckBranch returns ErrUnknownSymbol for indices outside the table.
func CheckBranch(b Branch) error {
	if !b.Valid() {
		return fmt.Errorf("%w: branch %d", ErrUnknownSymbol, int(b))
	}
	return nil
}
