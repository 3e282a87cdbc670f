package importer

import (
	"time"

	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/google/uuid"
)

// Catalog is a converted import ready for persistence.
type Catalog struct {
	Stages  []*domain.Stage
	Days    []*domain.Day
	Actions []*domain.ClosureAction
}

// Convert transforms a validated CatalogSchema into domain objects. Entries
// without an explicit id get a fresh UUID.
// Call ValidateCatalogSchema first; Convert assumes the schema is valid.
func Convert(schema *CatalogSchema) *Catalog {
	now := time.Now().UTC()
	out := &Catalog{}

	for i, s := range schema.Stages {
		stage := &domain.Stage{
			ID:        domain.CoalesceStr(s.ID, uuid.New().String()),
			Kind:      domain.StageKind(s.Kind),
			SortOrder: stageOrder(i, s),
			Title:     s.Title,
			CreatedAt: now,
		}
		out.Stages = append(out.Stages, stage)

		for j, d := range s.Days {
			out.Days = append(out.Days, &domain.Day{
				ID:        domain.CoalesceStr(d.ID, uuid.New().String()),
				StageID:   stage.ID,
				Number:    dayNumber(j, d),
				Title:     d.Title,
				CreatedAt: now,
			})
		}
	}

	for i, a := range schema.ClosureActions {
		out.Actions = append(out.Actions, &domain.ClosureAction{
			ID:        domain.CoalesceStr(a.ID, uuid.New().String()),
			Title:     a.Title,
			SortOrder: domain.IntFromPtrWithDefault(i+1, a.Order),
			CreatedAt: now,
		})
	}
	return out
}
