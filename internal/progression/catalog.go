package progression

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/staircase/internal/domain"
)

// Catalog is the static program definition the resolver walks: stages in
// ascending sort order, each stage's days in ascending day number, and the
// closure track's required actions.
type Catalog struct {
	Stages  []*domain.Stage
	Days    map[string][]*domain.Day
	Actions []*domain.ClosureAction
}

// NewCatalog orders and groups raw catalog rows and validates them. The
// inputs are not modified.
func NewCatalog(stages []*domain.Stage, days []*domain.Day, actions []*domain.ClosureAction) (*Catalog, error) {
	if err := ValidateCatalog(stages, days); err != nil {
		return nil, err
	}

	c := &Catalog{
		Stages:  append([]*domain.Stage(nil), stages...),
		Days:    make(map[string][]*domain.Day, len(stages)),
		Actions: append([]*domain.ClosureAction(nil), actions...),
	}
	sort.SliceStable(c.Stages, func(i, j int) bool {
		return c.Stages[i].SortOrder < c.Stages[j].SortOrder
	})
	for _, d := range days {
		c.Days[d.StageID] = append(c.Days[d.StageID], d)
	}
	for id := range c.Days {
		stageDays := c.Days[id]
		sort.SliceStable(stageDays, func(i, j int) bool {
			return stageDays[i].Number < stageDays[j].Number
		})
	}
	return c, nil
}

// StageDays returns the ordered days of a stage.
func (c *Catalog) StageDays(stageID string) []*domain.Day {
	return c.Days[stageID]
}

// ValidateCatalog cross-checks catalog rows. A day pointing at a stage that
// is not in the catalog is a DAY_STAGE_MISMATCH. Duplicate sort orders,
// duplicate day numbers within a stage, repeated closure or post-closure
// stages, and a post-closure stage that does not directly follow the closure
// stage are STAGE_ORDER_VIOLATIONs.
func ValidateCatalog(stages []*domain.Stage, days []*domain.Day) error {
	byID := make(map[string]*domain.Stage, len(stages))
	orders := make(map[int]string, len(stages))
	var closure, post *domain.Stage

	for _, s := range stages {
		if prev, ok := orders[s.SortOrder]; ok {
			return Errorf(CodeStageOrderViolation,
				"stages %s and %s share sort order %d", prev, s.ID, s.SortOrder)
		}
		orders[s.SortOrder] = s.ID
		byID[s.ID] = s

		switch s.Kind {
		case domain.StageClosure:
			if closure != nil {
				return Errorf(CodeStageOrderViolation, "more than one %s stage", s.Kind)
			}
			closure = s
		case domain.PostClosureKind:
			if post != nil {
				return Errorf(CodeStageOrderViolation, "more than one %s stage", s.Kind)
			}
			post = s
		case domain.StageAcceptance, domain.StageRebuilding, domain.StageRenewal:
		default:
			return Errorf(CodeUnknownStageKind, "stage %s has unknown kind %q", s.ID, s.Kind)
		}
	}

	if post != nil {
		if closure == nil {
			return Errorf(CodeStageOrderViolation, "%s stage %s has no closure stage before it", post.Kind, post.ID)
		}
		if !immediatelyFollows(stages, closure, post) {
			return Errorf(CodeStageOrderViolation,
				"%s stage %s must directly follow closure stage %s", post.Kind, post.ID, closure.ID)
		}
	}

	numbers := make(map[string]map[int]bool)
	for _, d := range days {
		if _, ok := byID[d.StageID]; !ok {
			return Errorf(CodeDayStageMismatch, "day %s references unknown stage %s", d.ID, d.StageID)
		}
		if numbers[d.StageID] == nil {
			numbers[d.StageID] = make(map[int]bool)
		}
		if numbers[d.StageID][d.Number] {
			return Errorf(CodeStageOrderViolation,
				"stage %s has more than one day %d", d.StageID, d.Number)
		}
		numbers[d.StageID][d.Number] = true
	}
	return nil
}

// immediatelyFollows reports whether no stage sorts strictly between a and b,
// and b sorts after a.
func immediatelyFollows(stages []*domain.Stage, a, b *domain.Stage) bool {
	if b.SortOrder <= a.SortOrder {
		return false
	}
	for _, s := range stages {
		if s.SortOrder > a.SortOrder && s.SortOrder < b.SortOrder {
			return false
		}
	}
	return true
}

// Warnings lists catalog shapes that are valid but will stall a user.
func (c *Catalog) Warnings() []string {
	var out []string
	if len(c.Actions) == 0 {
		out = append(out, "no closure actions defined: the closure track can never complete")
	}
	for i, s := range c.Stages {
		if len(c.Days[s.ID]) > 0 || s.Kind == domain.StageClosure {
			continue
		}
		if i == len(c.Stages)-1 {
			out = append(out, fmt.Sprintf("stage %q (%s) has no days and can never be completed", s.Title, s.Kind))
			continue
		}
		out = append(out, fmt.Sprintf("stage %q (%s) has no days and blocks every stage after it", s.Title, s.Kind))
	}
	return out
}
