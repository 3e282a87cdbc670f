package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/staircase/internal/app"
	"github.com/alexanderramin/staircase/internal/db"
	"github.com/alexanderramin/staircase/internal/importer"
	"github.com/alexanderramin/staircase/internal/progression"
	"github.com/alexanderramin/staircase/internal/repository"
)

type catalogService struct {
	catalog  repository.CatalogRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewCatalogService(catalog repository.CatalogRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CatalogService {
	return &catalogService{
		catalog:  catalog,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *catalogService) ImportCatalog(ctx context.Context, filePath string) (*app.CatalogImportResult, error) {
	schema, err := importer.LoadCatalogSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog file: %w", err)
	}
	return s.ImportCatalogFromSchema(ctx, schema)
}

// ImportCatalogFromSchema validates the schema, checks it together with the
// catalog already stored, and writes every entity in one transaction.
func (s *catalogService) ImportCatalogFromSchema(ctx context.Context, schema *importer.CatalogSchema) (result *app.CatalogImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "import-catalog", startedAt, fields, &err)

	if errs := importer.ValidateCatalogSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	converted := importer.Convert(schema)

	var merged *progression.Catalog
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteCatalogRepo(tx)

		stages, err := repo.ListStages(ctx)
		if err != nil {
			return err
		}
		days, err := repo.ListDays(ctx)
		if err != nil {
			return err
		}
		actions, err := repo.ListClosureActions(ctx)
		if err != nil {
			return err
		}
		merged, err = progression.NewCatalog(
			append(stages, converted.Stages...),
			append(days, converted.Days...),
			append(actions, converted.Actions...),
		)
		if err != nil {
			return fmt.Errorf("catalog rejected: %w", err)
		}

		for _, st := range converted.Stages {
			if err := repo.CreateStage(ctx, st); err != nil {
				return fmt.Errorf("creating stage %q: %w", st.Title, err)
			}
		}
		for _, d := range converted.Days {
			if err := repo.CreateDay(ctx, d); err != nil {
				return fmt.Errorf("creating day %d of stage %s: %w", d.Number, d.StageID, err)
			}
		}
		for _, a := range converted.Actions {
			if err := repo.CreateClosureAction(ctx, a); err != nil {
				return fmt.Errorf("creating closure action %q: %w", a.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["stages"] = len(converted.Stages)
	fields["days"] = len(converted.Days)
	fields["actions"] = len(converted.Actions)
	return &app.CatalogImportResult{
		StageCount:  len(converted.Stages),
		DayCount:    len(converted.Days),
		ActionCount: len(converted.Actions),
		Warnings:    merged.Warnings(),
	}, nil
}

// ValidateCatalogFile reports schema errors, catalog ordering errors and
// warnings for a file on its own. Nothing is written.
func (s *catalogService) ValidateCatalogFile(ctx context.Context, filePath string) (*app.CatalogValidation, error) {
	schema, err := importer.LoadCatalogSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog file: %w", err)
	}

	v := &app.CatalogValidation{Errors: importer.ValidateCatalogSchema(schema)}
	if len(v.Errors) > 0 {
		return v, nil
	}

	converted := importer.Convert(schema)
	c, err := progression.NewCatalog(converted.Stages, converted.Days, converted.Actions)
	if err != nil {
		v.Errors = append(v.Errors, err)
		return v, nil
	}
	v.Warnings = c.Warnings()
	return v, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("catalog validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
