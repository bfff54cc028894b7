package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Veraticus/search-term-analyzer/internal/backend"
	"github.com/Veraticus/search-term-analyzer/internal/common"
	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/results"
	"github.com/Veraticus/search-term-analyzer/internal/service"
	"github.com/Veraticus/search-term-analyzer/internal/testutil"
	"github.com/Veraticus/search-term-analyzer/internal/testutil/keywords"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockExporter struct {
	err   error
	calls int
	mu    sync.Mutex
}

func (m *mockExporter) Export(_ context.Context, req service.AnalysisRequest, dir string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return filepath.Join(dir, req.ProductType.ArtifactName()), nil
}

func readySession(t *testing.T, pt model.ProductType, analyzer service.Analyzer, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithFiles("search.xlsx", "targeting.xlsx")}, opts...)
	return New(pt, analyzer, opts...)
}

func TestSubmit_MissingFiles(t *testing.T) {
	analyzer := testutil.NewMockAnalyzer(model.ClassificationResult{})
	s := New(model.ProductTypeBrands, analyzer)
	s.SetFile(SearchFile, "search.xlsx")

	err := s.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingFiles)
	assert.Equal(t, "Please upload both files for Sponsored Brands", s.Error())
	assert.Equal(t, 0, analyzer.ProcessCallCount(), "validation must not contact the server")
	assert.False(t, s.Loading())
}

func TestValidate(t *testing.T) {
	analyzer := testutil.NewMockAnalyzer(model.ClassificationResult{})
	s := New(model.ProductTypeDisplay, analyzer)
	s.SetFile(TargetingFile, "targeting.xlsx")

	err := s.Validate()
	assert.ErrorIs(t, err, common.ErrMissingFiles)
	assert.Equal(t, "Please upload both files for Sponsored Display", s.Error())
	assert.False(t, s.Loading())
	assert.Equal(t, 0, analyzer.ProcessCallCount())

	s.SetFile(SearchFile, "search.xlsx")
	assert.NoError(t, s.Validate())
	assert.False(t, s.Loading(), "validating starts no work")
	assert.Equal(t, 0, analyzer.ProcessCallCount())
}

func TestSubmit_Success(t *testing.T) {
	result := keywords.NewBuilder(t).WithFixture(keywords.FixtureStandard).Build()
	analyzer := testutil.NewMockAnalyzer(result)
	s := readySession(t, model.ProductTypeProducts, analyzer)
	s.SetThreshold(4)

	require.NoError(t, s.Submit(context.Background()))

	req, ok := analyzer.LastProcessRequest()
	require.True(t, ok)
	assert.Equal(t, service.AnalysisRequest{
		ProductType:   model.ProductTypeProducts,
		SearchFile:    "search.xlsx",
		TargetingFile: "targeting.xlsx",
		Threshold:     4,
	}, req)

	snap := s.Snapshot()
	assert.Equal(t, results.StateLoaded, snap.State)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	assert.Equal(t, "Analyzed 8 keywords", snap.Status)
	require.Len(t, snap.Views, 4)
	assert.Equal(t, 2, snap.Views[0].Counts.Total)
}

func TestSubmit_RemoteErrorKeepsPreviousResult(t *testing.T) {
	result := keywords.NewBuilder(t).WithTerms(model.CategoryPositiveNoB0, "kept").Build()
	analyzer := testutil.NewMockAnalyzer(result)
	s := readySession(t, model.ProductTypeProducts, analyzer)
	require.NoError(t, s.Submit(context.Background()))

	analyzer.SetProcessError(&backend.RemoteError{
		StatusCode: 400,
		Message:    "Missing column: Customer Search Term",
		Err:        common.ErrProcessingFailed,
	})
	err := s.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, "Missing column: Customer Search Term", s.Error())
	assert.False(t, s.Loading())
	view := s.View(model.CategoryPositiveNoB0)
	assert.Equal(t, []string{"kept"}, keywords.TermsOf(view.Rows))
}

func TestSubmit_ErrorClearedBySuccessAndFileChange(t *testing.T) {
	analyzer := testutil.NewMockAnalyzer(model.ClassificationResult{})
	analyzer.SetProcessError(errors.New("Failed to fetch"))
	s := readySession(t, model.ProductTypeProducts, analyzer)

	require.Error(t, s.Submit(context.Background()))
	assert.Equal(t, "Failed to fetch", s.Error())

	s.SetFile(TargetingFile, "other.xlsx")
	assert.Empty(t, s.Error())

	require.Error(t, s.Submit(context.Background()))
	analyzer.SetProcessResult(model.ClassificationResult{})
	require.NoError(t, s.Submit(context.Background()))
	assert.Empty(t, s.Error())
}

func TestSubmit_BusyWhileInFlight(t *testing.T) {
	gate := testutil.NewGate()
	analyzer := &testutil.MockAnalyzer{
		ProcessFunc: func(ctx context.Context, _ service.AnalysisRequest) (model.ClassificationResult, error) {
			if err := gate.Wait(ctx); err != nil {
				return model.ClassificationResult{}, err
			}
			return model.ClassificationResult{}, nil
		},
	}
	s := readySession(t, model.ProductTypeProducts, analyzer, WithExporter(&mockExporter{}))

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background()) }()
	<-gate.Entered()

	assert.True(t, s.Loading())
	assert.ErrorIs(t, s.Submit(context.Background()), common.ErrBusy)
	_, err := s.ExportArtifact(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, common.ErrBusy)
	assert.Empty(t, s.Error(), "a rejected duplicate leaves no error behind")

	gate.Release()
	require.NoError(t, <-done)
	assert.False(t, s.Loading())
	assert.Equal(t, 1, analyzer.ProcessCallCount())
}

func TestSubmit_CanceledContextClearsLoading(t *testing.T) {
	gate := testutil.NewGate()
	analyzer := &testutil.MockAnalyzer{
		ProcessFunc: func(ctx context.Context, _ service.AnalysisRequest) (model.ClassificationResult, error) {
			return model.ClassificationResult{}, gate.Wait(ctx)
		},
	}
	s := readySession(t, model.ProductTypeProducts, analyzer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Submit(ctx) }()
	<-gate.Entered()
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, s.Loading())
	assert.NotEmpty(t, s.Error())
}

func TestThreshold(t *testing.T) {
	s := New(model.ProductTypeProducts, &testutil.MockAnalyzer{})
	assert.Equal(t, 1, s.Threshold())

	s.SetThreshold(-5)
	assert.Equal(t, 0, s.Threshold())

	assert.Equal(t, 12, s.SetThresholdInput("12abc"))
	assert.Equal(t, 12, s.Threshold())

	display := New(model.ProductTypeDisplay, &testutil.MockAnalyzer{})
	display.SetThreshold(7)
	assert.Equal(t, 1, display.Threshold())
}

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"3", 3},
		{"  42", 42},
		{"7.9", 7},
		{"12abc", 12},
		{"+5", 5},
		{"-3", 0},
		{"abc", 0},
		{"", 0},
		{"0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseThreshold(tt.input))
		})
	}
}

func TestExportArtifact(t *testing.T) {
	exporter := &mockExporter{}
	s := readySession(t, model.ProductTypeBrands, &testutil.MockAnalyzer{}, WithExporter(exporter))

	path, err := s.ExportArtifact(context.Background(), "out")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "brands_Targeting_Results.xlsx"), path)
	assert.Equal(t, "Saved "+path, s.Status())

	exporter.err = common.NewUserError("Failed to download file", common.ErrExportFailed)
	_, err = s.ExportArtifact(context.Background(), "out")
	require.Error(t, err)
	assert.Equal(t, "Failed to download file", s.Error())
	assert.False(t, s.Loading())
}

func TestExportArtifact_Validation(t *testing.T) {
	exporter := &mockExporter{}
	s := New(model.ProductTypeDisplay, &testutil.MockAnalyzer{}, WithExporter(exporter))

	_, err := s.ExportArtifact(context.Background(), "out")
	assert.ErrorIs(t, err, common.ErrMissingFiles)
	assert.Equal(t, "Please upload both files for Sponsored Display", s.Error())
	assert.Equal(t, 0, exporter.calls)
}

func TestSortStickyAcrossSubmissions(t *testing.T) {
	first := keywords.NewBuilder(t).WithFixture(keywords.FixtureMixedACOS).Build()
	analyzer := testutil.NewMockAnalyzer(first)
	s := readySession(t, model.ProductTypeProducts, analyzer)
	require.NoError(t, s.Submit(context.Background()))

	s.SetSort(model.FieldACOS, model.CategoryPositiveNoB0)
	s.SetLimit(model.CategoryPositiveNoB0, 2)
	s.SetFilter(results.FilterSpec{Type: results.FilterLess, Value: "0.4"})

	second := keywords.NewBuilder(t).
		WithTerm(model.CategoryPositiveNoB0, "low", model.Number(0.05), 1).
		WithTerm(model.CategoryPositiveNoB0, "high", model.Number(0.35), 1).
		WithTerm(model.CategoryPositiveNoB0, "over", model.Number(0.9), 1).
		Build()
	analyzer.SetProcessResult(second)
	require.NoError(t, s.Submit(context.Background()))

	snap := s.Snapshot()
	require.NotNil(t, snap.Sort)
	assert.Equal(t, results.Descending, snap.Sort.Direction)
	assert.Equal(t, results.FilterLess, snap.Filter.Type)
	assert.Equal(t, results.DefaultLimit, s.Limit(model.CategoryPositiveNoB0))
	assert.Equal(t, []string{"high", "low"}, keywords.TermsOf(snap.Views[0].Rows))
}

func TestWorkspace_TabsAreIndependent(t *testing.T) {
	gate := testutil.NewGate()
	result := keywords.NewBuilder(t).WithFixture(keywords.FixtureStandard).Build()
	analyzer := &testutil.MockAnalyzer{
		ProcessFunc: func(ctx context.Context, req service.AnalysisRequest) (model.ClassificationResult, error) {
			if req.ProductType == model.ProductTypeProducts {
				if err := gate.Wait(ctx); err != nil {
					return model.ClassificationResult{}, err
				}
			}
			return result, nil
		},
	}
	w := NewWorkspace(analyzer, WithFiles("s.xlsx", "t.xlsx"))

	done := make(chan error, 1)
	go func() { done <- w.Session(model.ProductTypeProducts).Submit(context.Background()) }()
	<-gate.Entered()

	brands := w.Session(model.ProductTypeBrands)
	require.NoError(t, brands.Submit(context.Background()))
	brands.SetSort(model.FieldOrders, model.CategoryPositiveNoB0)

	assert.True(t, w.Session(model.ProductTypeProducts).Loading())
	assert.Equal(t, results.StateIdle, w.Session(model.ProductTypeProducts).Snapshot().State)
	assert.Equal(t, results.StateIdle, w.Session(model.ProductTypeDisplay).Snapshot().State)

	gate.Release()
	require.NoError(t, <-done)
	assert.Nil(t, w.Session(model.ProductTypeProducts).Snapshot().Sort)
	assert.NotNil(t, brands.Snapshot().Sort)
}

func TestWorkspace_Navigation(t *testing.T) {
	w := NewWorkspace(&testutil.MockAnalyzer{})

	assert.Equal(t, model.ProductTypeProducts, w.ActiveType())
	assert.Equal(t, model.ProductTypeBrands, w.Next())
	assert.Equal(t, model.ProductTypeDisplay, w.Next())
	assert.Equal(t, model.ProductTypeProducts, w.Next())
	assert.Equal(t, model.ProductTypeDisplay, w.Prev())

	assert.True(t, w.SetActive(model.ProductTypeBrands))
	assert.False(t, w.SetActive("video"))
	assert.Equal(t, model.ProductTypeBrands, w.Active().ProductType())
	assert.Len(t, w.Sessions(), 3)
}
