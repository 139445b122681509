package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dkhrutsky/mdskeeper/internal/common"
	"github.com/dkhrutsky/mdskeeper/internal/models"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/records"
)

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse(models.TimeLayout, s)
	require.NoError(t, err)
	return tm
}

func sampleRecords(t *testing.T) []models.Record {
	return []models.Record{
		{ID: 0, Category: "荣誉", CreatedAt: ts(t, "2024-01-10 09:00:00"), Title: "Dean's list", Notes: "spring"},
		{ID: 1, Category: "竞赛", CreatedAt: ts(t, "2024-05-20 09:00:00"), Title: "ACM regional", Notes: "", Extra: map[string]string{"school": "THU"}},
	}
}

func TestProject_FiltersAndCounts(t *testing.T) {
	filtered, count := Project(sampleRecords(t), records.Filter{Category: "荣誉"})
	assert.Equal(t, 1, count)
	require.Len(t, filtered, 1)
	assert.Equal(t, 0, filtered[0].ID)
}

func TestBuild_EmptySetIsRejected(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, common.ErrorNothingToExport)
}

func TestBuild_AllThreeEncodingsPresent(t *testing.T) {
	bundle, err := Build(sampleRecords(t))
	require.NoError(t, err)

	assert.Equal(t, 2, bundle.Count)
	assert.NotEmpty(t, bundle.CSV)
	assert.NotEmpty(t, bundle.Excel)
	assert.NotEmpty(t, bundle.JSON)
}

func TestBuild_CSVEncoding(t *testing.T) {
	bundle, err := Build(sampleRecords(t))
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(bundle.CSV)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "category", "created_at", "title", "notes", "school"}, rows[0])
	assert.Equal(t, "Dean's list", rows[1][3])
	assert.Equal(t, "THU", rows[2][5])
}

func TestBuild_JSONEncoding(t *testing.T) {
	bundle, err := Build(sampleRecords(t))
	require.NoError(t, err)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(bundle.JSON, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "荣誉", out[0]["category"])
	assert.Equal(t, "2024-01-10 09:00:00", out[0]["created_at"])
	assert.Equal(t, "THU", out[1]["school"], "legacy columns are flattened in")
}

func TestBuild_ExcelEncoding(t *testing.T) {
	bundle, err := Build(sampleRecords(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(bundle.Excel))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("data")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "title", rows[0][3])
	assert.Equal(t, "ACM regional", rows[2][3])
}

func TestBuild_AllEncodersSeeSameSequence(t *testing.T) {
	filtered, _ := Project(sampleRecords(t), records.Filter{Keyword: "acm"})
	bundle, err := Build(filtered)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(bundle.CSV)).ReadAll()
	require.NoError(t, err)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(bundle.JSON, &out))

	assert.Equal(t, len(rows)-1, len(out))
	assert.Equal(t, bundle.Count, len(out))
}
