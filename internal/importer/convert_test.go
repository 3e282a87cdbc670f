package importer

import (
	"testing"

	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_MinimalCatalog(t *testing.T) {
	cat := Convert(validMinimalSchema())

	require.Len(t, cat.Stages, 1)
	assert.NotEmpty(t, cat.Stages[0].ID)
	assert.Equal(t, domain.StageClosure, cat.Stages[0].Kind)
	assert.Equal(t, 1, cat.Stages[0].SortOrder)

	require.Len(t, cat.Days, 1)
	assert.Equal(t, cat.Stages[0].ID, cat.Days[0].StageID)
	assert.Equal(t, 1, cat.Days[0].Number)
	assert.Equal(t, "Day one", cat.Days[0].Title)

	require.Len(t, cat.Actions, 1)
	assert.Equal(t, 1, cat.Actions[0].SortOrder)
}

func TestConvert_ExplicitIDsAndNumbers(t *testing.T) {
	schema := &CatalogSchema{
		Stages: []StageImport{{
			ID: "closure", Kind: "closure", Title: "Closure", Order: ptrInt(10),
			Days: []DayImport{
				{ID: "c-d5", Title: "Five", Number: ptrInt(5)},
				{Title: "Second by position"},
			},
		}},
		ClosureActions: []ClosureActionImport{{ID: "letter", Title: "Letter", Order: ptrInt(7)}},
	}

	cat := Convert(schema)

	assert.Equal(t, "closure", cat.Stages[0].ID)
	assert.Equal(t, 10, cat.Stages[0].SortOrder)
	assert.Equal(t, "c-d5", cat.Days[0].ID)
	assert.Equal(t, 5, cat.Days[0].Number)
	assert.Equal(t, 2, cat.Days[1].Number)
	assert.Equal(t, "closure", cat.Days[1].StageID)
	assert.Equal(t, "letter", cat.Actions[0].ID)
	assert.Equal(t, 7, cat.Actions[0].SortOrder)
}

func TestConvert_FromFile(t *testing.T) {
	schema, err := LoadCatalogSchema("testdata/catalog.yaml")
	require.NoError(t, err)

	cat := Convert(schema)
	assert.Len(t, cat.Stages, 5)
	assert.Len(t, cat.Days, 9)
	assert.Len(t, cat.Actions, 3)
	assert.Equal(t, domain.StageDetachment, cat.Stages[1].Kind)
	assert.Equal(t, 2, cat.Stages[1].SortOrder)
}
