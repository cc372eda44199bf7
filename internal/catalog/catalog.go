// Package catalog holds the compiled-in medication schedule, time-slot
// metadata and the built-in symptom vocabulary. The data is declarative; the
// only runtime logic is lookup.
package catalog

import "github.com/sahaty/medtrack/pkg/model"

// Medications is the fixed daily schedule, grouped by time slot in the order
// the slots occur.
var Medications = []model.Medication{
	{ID: "examide", Name: "Examide 20 mg", Dosage: "one tablet", TimeSlot: model.SlotMorningFasting, Notes: "diuretic, take on an empty stomach", FrequencyLabel: "7:00 AM", Category: model.CategoryOther},
	{ID: "norvasc", Name: "Norvasc 10 mg", Dosage: "one tablet", TimeSlot: model.SlotMorningFasting, Notes: "for blood pressure", FrequencyLabel: "7:00 AM", Category: model.CategoryPressure},
	{ID: "contorloc", Name: "Contorloc 40 mg", Dosage: "one tablet", TimeSlot: model.SlotMorningFasting, Notes: "for stomach acidity", FrequencyLabel: "7:00 AM", Category: model.CategoryStomach},
	{ID: "corvid", Name: "Corvid 6.25 mg", Dosage: "half a tablet", TimeSlot: model.SlotMorningFasting, Notes: "for blood pressure and heart", FrequencyLabel: "7:00 AM", Category: model.CategoryPressure},
	{ID: "aldomet-1", Name: "Aldomet 250 mg", Dosage: "two tablets", TimeSlot: model.SlotAfterBreakfast, Notes: "first dose (every 8 hours)", FrequencyLabel: "9:00 AM", Category: model.CategoryPressure},
	{ID: "eliquis-1", Name: "Eliquis 2.5 mg", Dosage: "one tablet", TimeSlot: model.SlotAfterBreakfast, Notes: "blood thinner, bleeding risk", IsCritical: true, FrequencyLabel: "9:00 AM", Category: model.CategoryBloodThinner},
	{ID: "acetyl-1", Name: "Acetyl Cysteine", Dosage: "one sachet", TimeSlot: model.SlotAfterBreakfast, Notes: "mucolytic", FrequencyLabel: "9:00 AM", Category: model.CategoryOther},
	{ID: "forxiga", Name: "Forxiga 10 mg", Dosage: "one tablet", TimeSlot: model.SlotBeforeLunch, Notes: "for diabetes, drink plenty of water", FrequencyLabel: "1:00 PM", Category: model.CategoryDiabetes},
	{ID: "suprax", Name: "Suprax 200 mg", Dosage: "one tablet", TimeSlot: model.SlotAfterLunch, Notes: "antibiotic", FrequencyLabel: "3:00 PM", Category: model.CategoryAntibiotic},
	{ID: "suprax-susp", Name: "Suprax Suspension", Dosage: "3 ml", TimeSlot: model.SlotAfterLunch, Notes: "liquid antibiotic", FrequencyLabel: "3:00 PM", Category: model.CategoryAntibiotic},
	{ID: "eraloner", Name: "Eraloner 25 mg", Dosage: "one tablet", TimeSlot: model.SlotAfternoon, Notes: "for anxiety and mood", FrequencyLabel: "5:00 PM", Category: model.CategoryOther},
	{ID: "aldomet-2", Name: "Aldomet 250 mg", Dosage: "two tablets", TimeSlot: model.SlotAfternoon, Notes: "second dose (8 hours later)", FrequencyLabel: "5:00 PM", Category: model.CategoryPressure},
	{ID: "cardura", Name: "Cardura 4 mg", Dosage: "one tablet", TimeSlot: model.SlotSixPM, Notes: "for blood pressure", FrequencyLabel: "6:00 PM", Category: model.CategoryPressure},
	{ID: "plavix", Name: "Plavix 75 mg", Dosage: "one tablet", TimeSlot: model.SlotAfterDinner, Notes: "blood thinner, high bleeding risk", IsCritical: true, FrequencyLabel: "8:00 PM", Category: model.CategoryBloodThinner},
	{ID: "lipitor", Name: "Lipitor 40 mg", Dosage: "one tablet", TimeSlot: model.SlotAfterDinner, Notes: "for cholesterol", FrequencyLabel: "8:00 PM", Category: model.CategoryOther},
	{ID: "moxiflox", Name: "Moxiflox", Dosage: "one tablet", TimeSlot: model.SlotAfterDinner, Notes: "antibiotic, keep away from dairy", FrequencyLabel: "8:00 PM", Category: model.CategoryAntibiotic},
	{ID: "spiriva", Name: "Spiriva 18 mcg", Dosage: "one inhalation", TimeSlot: model.SlotAfterDinner, Notes: "inhaler", FrequencyLabel: "8:00 PM", Category: model.CategoryOther},
	{ID: "eliquis-2", Name: "Eliquis 2.5 mg", Dosage: "one tablet", TimeSlot: model.SlotBeforeBed, Notes: "evening dose", IsCritical: true, FrequencyLabel: "10:00 PM", Category: model.CategoryBloodThinner},
	{ID: "aldomet-3", Name: "Aldomet 250 mg", Dosage: "two tablets", TimeSlot: model.SlotBeforeBed, Notes: "third and final dose", FrequencyLabel: "10:00 PM", Category: model.CategoryPressure},
	{ID: "acetyl-2", Name: "Acetyl Cysteine", Dosage: "one sachet", TimeSlot: model.SlotBeforeBed, Notes: "evening dose", FrequencyLabel: "10:00 PM", Category: model.CategoryOther},
}

// Slots lists the eight time slots in daily order.
var Slots = []model.TimeSlot{
	model.SlotMorningFasting,
	model.SlotAfterBreakfast,
	model.SlotBeforeLunch,
	model.SlotAfterLunch,
	model.SlotAfternoon,
	model.SlotSixPM,
	model.SlotAfterDinner,
	model.SlotBeforeBed,
}

// SlotHours maps each slot to its default reminder hour (24h clock).
var SlotHours = map[model.TimeSlot]int{
	model.SlotMorningFasting: 7,
	model.SlotAfterBreakfast: 9,
	model.SlotBeforeLunch:    13,
	model.SlotAfterLunch:     15,
	model.SlotAfternoon:      17,
	model.SlotSixPM:          18,
	model.SlotAfterDinner:    20,
	model.SlotBeforeBed:      22,
}

// SlotLabels maps each slot to its display label.
var SlotLabels = map[model.TimeSlot]string{
	model.SlotMorningFasting: "Morning (fasting)",
	model.SlotAfterBreakfast: "After breakfast",
	model.SlotBeforeLunch:    "Before lunch",
	model.SlotAfterLunch:     "After lunch",
	model.SlotAfternoon:      "Afternoon",
	model.SlotSixPM:          "6:00 PM",
	model.SlotAfterDinner:    "After dinner",
	model.SlotBeforeBed:      "Before bed",
}

// BuiltinSymptoms is the fixed symptom vocabulary offered for toggling.
// User-added custom symptoms are appended to this list for display.
var BuiltinSymptoms = []string{
	"headache",
	"dizziness",
	"nausea",
	"fatigue",
	"shortness of breath",
	"chest pain",
	"cough",
	"joint pain",
	"blurred vision",
}

// PresetIcons are the selectable medication icon names. An icon reference
// that is not one of these is treated as an inline image payload.
var PresetIcons = []string{
	"pill",
	"droplets",
	"zap",
	"shield-plus",
	"thermometer",
	"syringe",
	"activity",
}

var byID = func() map[string]model.Medication {
	m := make(map[string]model.Medication, len(Medications))
	for _, med := range Medications {
		m[med.ID] = med
	}
	return m
}()

// ByID looks up a catalog entry by its identifier.
func ByID(id string) (model.Medication, bool) {
	med, ok := byID[id]
	return med, ok
}

// BySlot returns the catalog entries bound to the given slot, in catalog order.
func BySlot(slot model.TimeSlot) []model.Medication {
	var meds []model.Medication
	for _, med := range Medications {
		if med.TimeSlot == slot {
			meds = append(meds, med)
		}
	}
	return meds
}

// Count returns the total catalog size.
func Count() int {
	return len(Medications)
}
