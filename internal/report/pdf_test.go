package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eljumillano/deposit-reports-go/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRender_WithRows(t *testing.T) {
	r := NewPDFRenderer("EL JUMILLANO", decimal.NewFromInt(10000))
	path := filepath.Join(t.TempDir(), "diferencias_2025-08-28.pdf")

	rows := []domain.DepositRecord{
		{
			Date:           "2025-08-28",
			RouteNumber:    "119",
			ExpectedAmount: decimal.NewFromInt(100000),
			ActualAmount:   decimal.NewFromInt(80000),
			Delta:          decimal.NewFromInt(-20000),
			Status:         domain.StatusShortage,
		},
	}

	require.NoError(t, r.Render(path, "2025-08-28", rows))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestRender_EmptyVariant(t *testing.T) {
	r := NewPDFRenderer("EL JUMILLANO", decimal.NewFromInt(10000))
	path := filepath.Join(t.TempDir(), "diferencias_2025-08-28.pdf")

	require.NoError(t, r.Render(path, "2025-08-28", nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}
