package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resq-relief/resq/internal/constants"
)

func TestDeriveShelterStatus(t *testing.T) {
	tests := []struct {
		name      string
		prev      constants.ShelterStatus
		occupied  int
		available int
		want      constants.ShelterStatus
	}{
		{"new shelter with room", "", 0, 10, constants.ShelterStatusAvailable},
		{"new shelter at capacity", "", 10, 10, constants.ShelterStatusFull},
		{"fills up", constants.ShelterStatusAvailable, 10, 10, constants.ShelterStatusFull},
		{"over capacity", constants.ShelterStatusAvailable, 12, 10, constants.ShelterStatusFull},
		{"frees a bed", constants.ShelterStatusFull, 9, 10, constants.ShelterStatusAvailable},
		{"inactive stays inactive", constants.ShelterStatusInactive, 3, 10, constants.ShelterStatusInactive},
		{"inactive at capacity becomes full", constants.ShelterStatusInactive, 10, 10, constants.ShelterStatusFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveShelterStatus(tt.prev, tt.occupied, tt.available))
		})
	}
}

func TestShelterFreeBeds(t *testing.T) {
	assert.Equal(t, 7, (&Shelter{BedsAvailable: 10, BedsOccupied: 3}).FreeBeds())
	assert.Equal(t, 0, (&Shelter{BedsAvailable: 4, BedsOccupied: 6}).FreeBeds())
}

func TestStringListRoundTrip(t *testing.T) {
	var empty StringList
	v, err := empty.Value()
	assert.NoError(t, err)
	assert.Equal(t, "[]", v)

	var got StringList
	assert.NoError(t, got.Scan([]byte(`["first aid","driving"]`)))
	assert.Equal(t, StringList{"first aid", "driving"}, got)
}
