package service

import (
	"context"

	"github.com/alexanderramin/staircase/internal/app"
	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/alexanderramin/staircase/internal/importer"
)

// ProgressionService is the single entry point the API layer calls to learn
// where a user stands.
type ProgressionService interface {
	Refresh(ctx context.Context, userID string) (*app.ProgressionSnapshot, error)
}

// ActivationService converges stored day progress onto one active day.
// Activate reopens the day whatever its status; ActivateFrom refuses with
// ErrDayChanged when the stored status is no longer the observed one.
type ActivationService interface {
	Activate(ctx context.Context, userID, dayID string) (*domain.DayProgress, error)
	ActivateFrom(ctx context.Context, userID, dayID string, observed domain.DayStatus) (*domain.DayProgress, error)
}

// CompletionService records the outcomes the form endpoints report: day
// completion and the closure track's actions, signature and safety check.
type CompletionService interface {
	CompleteDay(ctx context.Context, userID, dayID string, status domain.DayStatus) (*domain.DayProgress, error)
	SetDayCompletion(ctx context.Context, userID, dayID string, pct int) (*domain.DayProgress, error)
	CompleteClosureAction(ctx context.Context, userID, actionID string) (*app.ClosureStatus, error)
	SignClosureAgreement(ctx context.Context, userID string) (*app.ClosureStatus, error)
	RecordSafetyCheck(ctx context.Context, userID string, result domain.SafetyCheckResult) (*app.ClosureStatus, error)
	GetClosureStatus(ctx context.Context, userID string) (*app.ClosureStatus, error)
}

type CatalogService interface {
	ImportCatalog(ctx context.Context, filePath string) (*app.CatalogImportResult, error)
	ImportCatalogFromSchema(ctx context.Context, schema *importer.CatalogSchema) (*app.CatalogImportResult, error)
	ValidateCatalogFile(ctx context.Context, filePath string) (*app.CatalogValidation, error)
}
