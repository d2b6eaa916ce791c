package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePDFWritesFile(t *testing.T) {
	dir := t.TempDir()

	filename, err := GeneratePDF(dir, "Expiry Report",
		[]string{"Product ID", "Product Name", "Expiry Date", "Stock"},
		[][]string{
			{"1", "Paracetamol 500mg", "2026-09-01", "120"},
			{"2", "Ibuprofen 200mg", "2026-10-15", "40"},
		}, nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "expiry_report_"))
	assert.True(t, strings.HasSuffix(filename, ".pdf"))

	info, err := os.Stat(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGeneratePDFManyRowsPaginates(t *testing.T) {
	dir := t.TempDir()

	rows := make([][]string, 200)
	for i := range rows {
		rows[i] = []string{"1", "A product with a reasonably long descriptive name that wraps", "2026-01-01", "10"}
	}

	filename, err := GeneratePDF(dir, "Restock Prediction Report",
		[]string{"Product ID", "Product Name", "Restock Date", "Qty"}, rows, nil)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGeneratePDFCustomWidths(t *testing.T) {
	dir := t.TempDir()

	_, err := GeneratePDF(dir, "Customer Purchase Patterns Report",
		[]string{"Customer ID", "Products", "Sales"},
		[][]string{{"7", "Paracetamol, Ibuprofen, Aspirin", "1200.00"}},
		[]float64{25, 120, 35})
	require.NoError(t, err)
}
