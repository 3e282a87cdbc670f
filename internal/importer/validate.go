package importer

import (
	"fmt"

	"github.com/alexanderramin/staircase/internal/domain"
)

// ValidateCatalogSchema checks the schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateCatalogSchema(schema *CatalogSchema) []error {
	var errs []error

	if len(schema.Stages) == 0 {
		errs = append(errs, fmt.Errorf("stages: at least one stage is required"))
	}

	ids := make(map[string]string)
	orders := make(map[int]int)
	kindCount := make(map[string]int)
	for i, s := range schema.Stages {
		prefix := fmt.Sprintf("stages[%d]", i)

		errs = append(errs, checkID(ids, prefix, s.ID)...)
		if s.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if s.Kind == "" {
			errs = append(errs, fmt.Errorf("%s.kind is required", prefix))
		} else if !domain.ValidStageKinds[s.Kind] {
			errs = append(errs, fmt.Errorf("%s.kind: invalid value %q", prefix, s.Kind))
		} else {
			kindCount[s.Kind]++
		}

		order := stageOrder(i, s)
		if first, ok := orders[order]; ok {
			errs = append(errs, fmt.Errorf("%s.order: %d already used by stages[%d]", prefix, order, first))
		} else {
			orders[order] = i
		}

		errs = append(errs, validateDays(prefix, s.Days, ids)...)
	}

	for _, kind := range []domain.StageKind{domain.StageClosure, domain.PostClosureKind} {
		if kindCount[string(kind)] > 1 {
			errs = append(errs, fmt.Errorf("stages: at most one %s stage is allowed, found %d", kind, kindCount[string(kind)]))
		}
	}

	for i, a := range schema.ClosureActions {
		prefix := fmt.Sprintf("closure_actions[%d]", i)
		errs = append(errs, checkID(ids, prefix, a.ID)...)
		if a.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
	}

	return errs
}

func validateDays(stagePrefix string, days []DayImport, ids map[string]string) []error {
	var errs []error
	numbers := make(map[int]int)

	for j, d := range days {
		prefix := fmt.Sprintf("%s.days[%d]", stagePrefix, j)

		errs = append(errs, checkID(ids, prefix, d.ID)...)
		if d.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}

		n := dayNumber(j, d)
		if n <= 0 {
			errs = append(errs, fmt.Errorf("%s.number must be positive", prefix))
			continue
		}
		if first, ok := numbers[n]; ok {
			errs = append(errs, fmt.Errorf("%s.number: %d already used by days[%d]", prefix, n, first))
		} else {
			numbers[n] = j
		}
	}
	return errs
}

// checkID records an explicit ID and reports a clash with an earlier entry.
func checkID(ids map[string]string, prefix, id string) []error {
	if id == "" {
		return nil
	}
	if first, ok := ids[id]; ok {
		return []error{fmt.Errorf("%s.id: duplicate id %q (first used by %s)", prefix, id, first)}
	}
	ids[id] = prefix
	return nil
}

func stageOrder(i int, s StageImport) int {
	return domain.IntFromPtrWithDefault(i+1, s.Order)
}

func dayNumber(j int, d DayImport) int {
	return domain.IntFromPtrWithDefault(j+1, d.Number)
}
