package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedications_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, med := range Medications {
		assert.False(t, seen[med.ID], "duplicate medication id %s", med.ID)
		seen[med.ID] = true
	}
	assert.Equal(t, len(Medications), Count())
}

func TestMedications_AllFieldsPopulated(t *testing.T) {
	for _, med := range Medications {
		assert.NotEmpty(t, med.ID)
		assert.NotEmpty(t, med.Name)
		assert.NotEmpty(t, med.Dosage)
		assert.NotEmpty(t, med.TimeSlot)
		assert.NotEmpty(t, med.Category)
	}
}

func TestSlots_EverySlotHasHourAndLabel(t *testing.T) {
	for _, slot := range Slots {
		hour, ok := SlotHours[slot]
		assert.True(t, ok, "slot %s has no hour", slot)
		assert.GreaterOrEqual(t, hour, 0)
		assert.Less(t, hour, 24)

		_, ok = SlotLabels[slot]
		assert.True(t, ok, "slot %s has no label", slot)
	}
}

func TestSlots_EveryMedicationSlotIsKnown(t *testing.T) {
	known := map[string]bool{}
	for _, slot := range Slots {
		known[string(slot)] = true
	}
	for _, med := range Medications {
		assert.True(t, known[string(med.TimeSlot)], "medication %s references unknown slot %s", med.ID, med.TimeSlot)
	}
}

func TestByID(t *testing.T) {
	med, ok := ByID("examide")
	assert.True(t, ok)
	assert.Equal(t, "examide", med.ID)

	_, ok = ByID("no-such-med")
	assert.False(t, ok)
}

func TestBySlot_CoversWholeCatalog(t *testing.T) {
	total := 0
	for _, slot := range Slots {
		for _, med := range BySlot(slot) {
			assert.Equal(t, slot, med.TimeSlot)
			total++
		}
	}
	assert.Equal(t, Count(), total)
}

func TestCriticalMedications(t *testing.T) {
	critical := map[string]bool{}
	for _, med := range Medications {
		if med.IsCritical {
			critical[med.ID] = true
		}
	}
	assert.True(t, critical["eliquis-1"])
	assert.True(t, critical["eliquis-2"])
	assert.True(t, critical["plavix"])
	assert.Len(t, critical, 3)
}
