package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/auction-mapper/internal/model"
)

func TestExpand_SingleUnitPassthrough(t *testing.T) {
	rows := []model.AuctionRow{{
		AuctionID: "1001",
		Address:   "123 Market St",
		OPA:       "881001234",
		BookWrit:  "2301-4001",
	}}

	units := Expand(rows)

	require.Len(t, units, 1)
	assert.Equal(t, rows[0], units[0])
}

func TestExpand_AmpersandSplitsIntoUnits(t *testing.T) {
	rows := []model.AuctionRow{{
		AuctionID: "1001",
		Status:    "Active",
		Address:   "123 Market St & 125 Market St",
		OPA:       "881001234 & 881001235",
		BookWrit:  "2301-4001 & 2301-4002",
	}}

	units := Expand(rows)

	require.Len(t, units, 2)
	assert.Equal(t, "123 Market St", units[0].Address)
	assert.Equal(t, "881001234", units[0].OPA)
	assert.Equal(t, "2301-4001", units[0].BookWrit)
	assert.Equal(t, "125 Market St", units[1].Address)
	assert.Equal(t, "881001235", units[1].OPA)
	assert.Equal(t, "2301-4002", units[1].BookWrit)

	// Descriptive fields carry onto every unit.
	assert.Equal(t, "Active", units[0].Status)
	assert.Equal(t, "Active", units[1].Status)
}

func TestExpand_ShorterListsPadded(t *testing.T) {
	// Two addresses but a single OPA: the second unit gets an empty OPA
	// rather than a recycled one.
	rows := []model.AuctionRow{{
		Address: "123 Market St & 125 Market St",
		OPA:     "881001234",
	}}

	units := Expand(rows)

	require.Len(t, units, 2)
	assert.Equal(t, "881001234", units[0].OPA)
	assert.Empty(t, units[1].OPA)
}

func TestExpand_UnitsWithoutAddressDropped(t *testing.T) {
	// One address but two OPAs: the padded second unit has no address and
	// is dropped.
	rows := []model.AuctionRow{{
		Address: "123 Market St",
		OPA:     "881001234 & 881001235",
	}}

	units := Expand(rows)

	require.Len(t, units, 1)
	assert.Equal(t, "123 Market St", units[0].Address)
}

func TestExpand_EmptyAddressRowDropped(t *testing.T) {
	rows := []model.AuctionRow{
		{AuctionID: "1001", Address: ""},
		{AuctionID: "1002", Address: "456 Chestnut St"},
	}

	units := Expand(rows)

	require.Len(t, units, 1)
	assert.Equal(t, "1002", units[0].AuctionID)
}

func TestSplitAmpersand(t *testing.T) {
	assert.Nil(t, splitAmpersand(""))
	assert.Equal(t, []string{"A", "B", "C"}, splitAmpersand("A & B & C"))
	assert.Equal(t, []string{"A"}, splitAmpersand("A"))
}
