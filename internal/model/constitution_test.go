package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateSetsPartitionRegistry(t *testing.T) {
	seen := map[Constitution]Gate{}
	for _, g := range []Gate{Dense, Hollow} {
		for _, c := range CandidatesFor(g) {
			_, dup := seen[c]
			require.False(t, dup, "%s listed twice", c)
			assert.Equal(t, g, c.Gate(), "%s listed under wrong gate", c)
			seen[c] = g
		}
	}
	assert.Len(t, seen, ConstitutionCount)
}

func TestConstitutionRelations(t *testing.T) {
	for _, c := range Constitutions() {
		t.Run(c.String(), func(t *testing.T) {
			sib := c.Sibling()
			assert.Equal(t, c, sib.Sibling())
			assert.Equal(t, c.Family(), sib.Family())
			assert.NotEqual(t, c.Gate(), sib.Gate())

			opp := c.Opposite()
			assert.Equal(t, c, opp.Opposite())
			assert.Equal(t, c.Gate(), opp.Gate())

			flow, mirrored := c.Flow(), opp.Flow()
			for i := range flow {
				assert.Equal(t, flow[i], mirrored[len(flow)-1-i])
			}

			first, ok := flow[0].Element()
			require.True(t, ok)
			assert.Equal(t, c.Family(), first)
		})
	}
}

func TestFlowsCoverEveryElement(t *testing.T) {
	for _, c := range Constitutions() {
		var seen ElementCounts
		for _, organ := range c.Flow() {
			e, ok := organ.Element()
			require.True(t, ok, organ)
			seen[e]++
		}
		for _, e := range Elements {
			assert.Equal(t, 1, seen[e], "%s flow visits %s", c, e)
		}
	}
}

func TestParseConstitution(t *testing.T) {
	c, err := ParseConstitution("hepatonia")
	require.NoError(t, err)
	assert.Equal(t, Hepatonia, c)

	_, err = ParseConstitution("Cardiotonia")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestGateRespiration(t *testing.T) {
	assert.Equal(t, "Inhalation", Dense.Respiration())
	assert.Equal(t, "Exhalation", Hollow.Respiration())
}
