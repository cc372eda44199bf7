package profile

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/internal/catalog"
	"github.com/sahaty/medtrack/internal/store"
)

// genMedicationID draws from the real catalog.
func genMedicationID() gopter.Gen {
	ids := make([]interface{}, 0, catalog.Count())
	for _, med := range catalog.Medications {
		ids = append(ids, med.ID)
	}
	return gen.OneConstOf(ids...)
}

func TestProperty_HistoryBoundedAndNewestFirst(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("history never exceeds the cap and newest entry is first", prop.ForAll(
		func(ids []string) bool {
			svc, err := NewService(context.Background(), store.NewMemoryStore(), nil, zap.NewNop())
			if err != nil {
				return false
			}
			ctx := context.Background()

			var lastDetails string
			for _, id := range ids {
				st := svc.ToggleMedication(ctx, id)
				if med, ok := catalog.ByID(id); ok {
					lastDetails = med.Name
				} else {
					lastDetails = id
				}
				if len(st.History) > historyLimit {
					return false
				}
			}

			st := svc.Snapshot()
			if len(ids) == 0 {
				return len(st.History) == 0
			}
			return st.History[0].Details == lastDetails
		},
		gen.SliceOf(genMedicationID()),
	))

	properties.TestingRun(t)
}

func TestProperty_DoubleToggleRestoresLedger(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("toggling twice restores the taken flag", prop.ForAll(
		func(id string) bool {
			svc, err := NewService(context.Background(), store.NewMemoryStore(), nil, zap.NewNop())
			if err != nil {
				return false
			}
			ctx := context.Background()

			before := svc.Snapshot().TakenMedications[id]
			svc.ToggleMedication(ctx, id)
			after := svc.ToggleMedication(ctx, id).TakenMedications[id]
			return before == after
		},
		genMedicationID(),
	))

	properties.TestingRun(t)
}

func TestProperty_RolloverPreservesHistoryAndIdentity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("rollover to a later date keeps history and identity", prop.ForAll(
		func(ids []string) bool {
			st := NewPatientState("2025-03-09")
			for _, id := range ids {
				st.TakenMedications[id] = true
			}
			before := st.PatientID

			next := Rollover(&st, "2025-03-10")
			if next.PatientID != before {
				return false
			}
			if len(next.TakenMedications) != 0 {
				return false
			}
			archived, ok := next.DailyReports["2025-03-09"]
			return ok && archived.Date == "2025-03-09"
		},
		gen.SliceOf(genMedicationID()),
	))

	properties.TestingRun(t)
}
