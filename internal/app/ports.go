package app

import (
	"context"

	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/alexanderramin/staircase/internal/importer"
)

type RefreshUseCase interface {
	Refresh(ctx context.Context, userID string) (*ProgressionSnapshot, error)
}

type DayCompletionUseCase interface {
	CompleteDay(ctx context.Context, userID, dayID string, status domain.DayStatus) (*domain.DayProgress, error)
	SetDayCompletion(ctx context.Context, userID, dayID string, pct int) (*domain.DayProgress, error)
}

type ClosureUseCase interface {
	CompleteClosureAction(ctx context.Context, userID, actionID string) (*ClosureStatus, error)
	SignClosureAgreement(ctx context.Context, userID string) (*ClosureStatus, error)
	RecordSafetyCheck(ctx context.Context, userID string, result domain.SafetyCheckResult) (*ClosureStatus, error)
	GetClosureStatus(ctx context.Context, userID string) (*ClosureStatus, error)
}

type ImportCatalogUseCase interface {
	ImportCatalog(ctx context.Context, filePath string) (*CatalogImportResult, error)
	ImportCatalogFromSchema(ctx context.Context, schema *importer.CatalogSchema) (*CatalogImportResult, error)
	ValidateCatalogFile(ctx context.Context, filePath string) (*CatalogValidation, error)
}
