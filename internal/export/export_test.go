package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/search-term-analyzer/internal/common"
	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/results"
	"github.com/Veraticus/search-term-analyzer/internal/service"
	"github.com/Veraticus/search-term-analyzer/internal/testutil"
	"github.com/Veraticus/search-term-analyzer/internal/testutil/keywords"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportRequest(pt model.ProductType) service.AnalysisRequest {
	return service.AnalysisRequest{
		ProductType:   pt,
		SearchFile:    "search.xlsx",
		TargetingFile: "targeting.xlsx",
		Threshold:     1,
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestExport_SavesArtifact(t *testing.T) {
	dir := t.TempDir()
	analyzer := &testutil.MockAnalyzer{
		DownloadFunc: func(context.Context, service.AnalysisRequest) (service.Artifact, error) {
			return testutil.ArtifactOf("PK-spreadsheet"), nil
		},
	}

	var progress bytes.Buffer
	path, err := NewExporter(analyzer, WithProgress(&progress)).
		Export(context.Background(), exportRequest(model.ProductTypeBrands), dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "brands_Targeting_Results.xlsx"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PK-spreadsheet", string(data))
	assert.NotEmpty(t, progress.String())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestExport_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	analyzer := &testutil.MockAnalyzer{}

	path, err := NewExporter(analyzer).Export(context.Background(), exportRequest(model.ProductTypeDisplay), dir)
	require.NoError(t, err)
	assert.Equal(t, "display_Targeting_Results.xlsx", filepath.Base(path))
}

func TestExport_RemoteFailure(t *testing.T) {
	dir := t.TempDir()
	remote := common.NewUserError("Failed to download file", common.ErrExportFailed)
	analyzer := &testutil.MockAnalyzer{
		DownloadFunc: func(context.Context, service.AnalysisRequest) (service.Artifact, error) {
			return service.Artifact{}, remote
		},
	}

	_, err := NewExporter(analyzer).Export(context.Background(), exportRequest(model.ProductTypeProducts), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExportFailed)
	assert.Equal(t, "Failed to download file", common.UserMessage(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExport_TransportFailureIsGeneric(t *testing.T) {
	analyzer := &testutil.MockAnalyzer{
		DownloadFunc: func(context.Context, service.AnalysisRequest) (service.Artifact, error) {
			return service.Artifact{}, errors.New("dial tcp: connection refused")
		},
	}

	_, err := NewExporter(analyzer).Export(context.Background(), exportRequest(model.ProductTypeProducts), t.TempDir())
	assert.ErrorIs(t, err, common.ErrExportFailed)
	assert.Equal(t, "Failed to download file", common.UserMessage(err))
}

func TestExport_InterruptedStreamKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "products_Targeting_Results.xlsx")
	require.NoError(t, os.WriteFile(target, []byte("previous"), 0o600))

	analyzer := &testutil.MockAnalyzer{
		DownloadFunc: func(context.Context, service.AnalysisRequest) (service.Artifact, error) {
			return service.Artifact{Body: io.NopCloser(failingReader{}), Size: -1}, nil
		},
	}

	_, err := NewExporter(analyzer).Export(context.Background(), exportRequest(model.ProductTypeProducts), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExportFailed)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteCSV(t *testing.T) {
	store := results.NewStore()
	store.ReceiveResult(keywords.NewBuilder(t).WithFixture(keywords.FixtureMixedACOS).Build())
	store.SetSort(model.FieldACOS, model.CategoryPositiveNoB0)

	var buf bytes.Buffer
	columns := model.ProductTypeProducts.Columns()
	require.NoError(t, WriteCSV(&buf, columns, store.View(model.CategoryPositiveNoB0)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Search Term,Campaign,"))
	assert.True(t, strings.HasPrefix(lines[1], "beta,"))
	assert.True(t, strings.HasPrefix(lines[4], "gamma,"), "null ACOS sorts last")
}

func TestWriteJSON(t *testing.T) {
	store := results.NewStore()
	store.ReceiveResult(keywords.NewBuilder(t).WithFixture(keywords.FixtureStandard).Build())
	store.SetLimit(model.CategoryPositiveNoB0, 1)

	doc := NewDocument(model.ProductTypeProducts, store.Views())

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, doc))

	var decoded struct {
		ProductType string `json:"product_type"`
		Tables      []struct {
			Category string           `json:"category"`
			Title    string           `json:"title"`
			Rows     []map[string]any `json:"rows"`
			Shown    int              `json:"shown"`
			Total    int              `json:"total"`
		} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "products", decoded.ProductType)
	require.Len(t, decoded.Tables, 4)
	assert.Equal(t, "Positive (Non-B0)", decoded.Tables[0].Title)
	assert.Equal(t, 1, decoded.Tables[0].Shown)
	assert.Equal(t, 2, decoded.Tables[0].Total)
	assert.Len(t, decoded.Tables[0].Rows, 1)
	assert.Nil(t, decoded.Tables[1].Rows[1]["acos"])
}

func TestWriteJSON_ManyDocuments(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf,
		NewDocument(model.ProductTypeProducts, nil),
		NewDocument(model.ProductTypeBrands, nil)))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, 2)
}
