package catalog

import (
	"errors"
	"testing"

	"parkly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFacilityDump(t *testing.T) {
	t.Run("well formed lines", func(t *testing.T) {
		dump := "Central Garage;OPEN;120;2.3522;48.8566\n" +
			"Riverside;CLOSED;40;2.2945;48.8584\n"

		facilities, err := ParseFacilityDump(dump)
		require.NoError(t, err)
		require.Len(t, facilities, 2)

		assert.Equal(t, "Central Garage", facilities[0].Name)
		assert.Equal(t, models.FacilityOpen, facilities[0].Status)
		assert.Equal(t, 120, facilities[0].CapacityTotal)
		assert.Equal(t, 120, facilities[0].CapacityAvailable)
		assert.Equal(t, 2.3522, facilities[0].Location.Lon())
		assert.Equal(t, 48.8566, facilities[0].Location.Lat())
		assert.Equal(t, models.FacilityClosed, facilities[1].Status)
	})

	t.Run("repairs a dot swallowing the separator", func(t *testing.T) {
		facilities, err := ParseFacilityDump("Central.OPEN;120;2.3522;48.8566")
		require.NoError(t, err)
		require.Len(t, facilities, 1)
		assert.Equal(t, "Central", facilities[0].Name)
		assert.Equal(t, models.FacilityOpen, facilities[0].Status)
	})

	t.Run("legacy status names", func(t *testing.T) {
		facilities, err := ParseFacilityDump("Gare du Nord;COMPLET;80;2.3553;48.8809")
		require.NoError(t, err)
		require.Len(t, facilities, 1)
		assert.Equal(t, models.FacilityFull, facilities[0].Status)
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		dump := "\nCentral;OPEN;120;2.3522;48.8566\n\n"
		facilities, err := ParseFacilityDump(dump)
		require.NoError(t, err)
		assert.Len(t, facilities, 1)
	})

	bad := []struct {
		name string
		line string
	}{
		{"wrong field count", "Central;OPEN;120;2.3522"},
		{"unknown status", "Central;DEMOLISHED;120;2.3522;48.8566"},
		{"non numeric capacity", "Central;OPEN;lots;2.3522;48.8566"},
		{"zero capacity", "Central;OPEN;0;2.3522;48.8566"},
		{"longitude out of range", "Central;OPEN;120;200.0;48.8566"},
		{"non numeric latitude", "Central;OPEN;120;2.3522;north"},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFacilityDump(tc.line)
			var valErr *ValidationError
			require.True(t, errors.As(err, &valErr), "expected ValidationError, got %v", err)
		})
	}
}
