package model

// AddStem records one stem occurrence in both the row and the vertical totals.
func (m *ElementMatrix) AddStem(row *MatrixRow, slot Slot, stem Stem, vis Visibility) {
	e := stem.Element()
	row.Counts[e]++
	row.Total++

	m.Totals[e]++
	m.StemsTotal++
	m.Polarity.Add(stem.Polarity())
	m.ElementPolarity[e].Add(stem.Polarity())
	m.Sources[e] = append(m.Sources[e], SourceHit{Slot: slot, Stem: stem, Visibility: vis})
}
