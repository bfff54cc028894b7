// Package session holds the state of one analysis tab: the selected reports,
// the threshold, the in-flight flag, the last error and the result store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/search-term-analyzer/internal/common"
	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/results"
	"github.com/Veraticus/search-term-analyzer/internal/service"
)

// FileKind identifies one of the two uploads.
type FileKind int

const (
	// SearchFile is the search term (or matched target) report.
	SearchFile FileKind = iota
	// TargetingFile is the targeting or keyword report.
	TargetingFile
)

// Label names the upload for a product type.
func (k FileKind) Label(pt model.ProductType) string {
	if k == SearchFile {
		return pt.SearchFileLabel()
	}
	return pt.TargetingFileLabel()
}

// Session is the analysis state of one product type. It is safe for
// concurrent use; remote calls run without holding the lock.
type Session struct {
	analyzer      service.Analyzer
	exporter      service.ArtifactExporter
	logger        *slog.Logger
	store         *results.Store
	productType   model.ProductType
	searchFile    string
	targetingFile string
	errMsg        string
	status        string
	threshold     int
	mu            sync.Mutex
	loading       bool
}

// Option configures a Session.
type Option func(*Session)

// WithExporter enables ExportArtifact.
func WithExporter(exporter service.ArtifactExporter) Option {
	return func(s *Session) {
		s.exporter = exporter
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithFiles pre-selects both reports.
func WithFiles(search, targeting string) Option {
	return func(s *Session) {
		s.searchFile = search
		s.targetingFile = targeting
	}
}

// WithThreshold sets the initial positive-order threshold.
func WithThreshold(n int) Option {
	return func(s *Session) {
		s.threshold = max(n, 0)
	}
}

// New creates an idle session for productType.
func New(productType model.ProductType, analyzer service.Analyzer, opts ...Option) *Session {
	s := &Session{
		productType: productType,
		analyzer:    analyzer,
		logger:      slog.Default(),
		store:       results.NewStore(),
		threshold:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProductType returns the product type the session analyzes.
func (s *Session) ProductType() model.ProductType {
	return s.productType
}

// SetFile selects a report. Any displayed error is cleared.
func (s *Session) SetFile(kind FileKind, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind == SearchFile {
		s.searchFile = path
	} else {
		s.targetingFile = path
	}
	s.errMsg = ""
}

// Files returns the selected reports.
func (s *Session) Files() (search, targeting string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchFile, s.targetingFile
}

// SetThreshold sets the positive-order threshold. Negative values become 0.
func (s *Session) SetThreshold(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = max(n, 0)
}

// SetThresholdInput sets the threshold from free text and returns the
// value kept. A leading integer is honored ("12abc" is 12); anything else
// is 0.
func (s *Session) SetThresholdInput(text string) int {
	n := ParseThreshold(text)
	s.SetThreshold(n)
	return n
}

// Threshold returns the threshold sent with requests. Product types with a
// fixed threshold always report 1.
func (s *Session) Threshold() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveThreshold()
}

func (s *Session) effectiveThreshold() int {
	if s.productType.FixedThreshold() {
		return 1
	}
	return s.threshold
}

// Loading reports whether a remote call is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Error returns the message of the last failure, or "".
func (s *Session) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Status returns the message of the last success, or "".
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Validate checks that both files are set and records the failure as the
// session error, the way a submit would, without starting any work.
func (s *Session) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.request(); err != nil {
		s.errMsg = common.UserMessage(err)
		return err
	}
	return nil
}

func (s *Session) request() (service.AnalysisRequest, error) {
	if s.searchFile == "" || s.targetingFile == "" {
		return service.AnalysisRequest{}, common.NewUserError(
			fmt.Sprintf("Please upload both files for %s", s.productType.Label()),
			common.ErrMissingFiles)
	}
	return service.AnalysisRequest{
		ProductType:   s.productType,
		SearchFile:    s.searchFile,
		TargetingFile: s.targetingFile,
		Threshold:     s.effectiveThreshold(),
	}, nil
}

// begin validates and marks the session loading. Busy sessions are left
// untouched; validation failures are recorded as the session error.
func (s *Session) begin() (service.AnalysisRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return service.AnalysisRequest{}, common.ErrBusy
	}

	req, err := s.request()
	if err != nil {
		s.errMsg = common.UserMessage(err)
		return service.AnalysisRequest{}, err
	}

	s.loading = true
	s.errMsg = ""
	return req, nil
}

// finish clears the loading flag and records the outcome.
func (s *Session) finish(err error, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	if err != nil {
		s.errMsg = common.UserMessage(err)
		s.status = ""
		return
	}
	s.status = status
}

// Submit runs an analysis. On success the result replaces the previous one;
// on failure the previous result stays and the error is recorded. Returns
// common.ErrBusy without side effects while another call is in flight.
func (s *Session) Submit(ctx context.Context) error {
	req, err := s.begin()
	if err != nil {
		return err
	}

	s.logger.Info("Submitting analysis",
		"product_type", req.ProductType,
		"threshold", req.Threshold)

	res, err := s.analyzer.Process(ctx, req)
	if err != nil {
		s.logger.Warn("Analysis failed", "product_type", req.ProductType, "error", err)
		s.finish(err, "")
		return err
	}

	s.mu.Lock()
	s.store.ReceiveResult(res)
	s.mu.Unlock()

	s.finish(nil, fmt.Sprintf("Analyzed %d keywords", res.Total()))
	return nil
}

// ExportArtifact downloads the server-rendered spreadsheet into dir. It
// shares the loading flag with Submit.
func (s *Session) ExportArtifact(ctx context.Context, dir string) (string, error) {
	if s.exporter == nil {
		return "", errors.New("no exporter configured")
	}

	req, err := s.begin()
	if err != nil {
		return "", err
	}

	path, err := s.exporter.Export(ctx, req, dir)
	if err != nil {
		s.logger.Warn("Export failed", "product_type", req.ProductType, "error", err)
		s.finish(err, "")
		return "", err
	}

	s.finish(nil, "Saved "+path)
	return path, nil
}

// SetSort activates a column header of a table.
func (s *Session) SetSort(field string, category model.Category) results.SortSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SetSort(field, category)
}

// ClearSort returns every table to natural order.
func (s *Session) ClearSort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearSort()
}

// SetFilter replaces the ACOS filter.
func (s *Session) SetFilter(spec results.FilterSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetFilter(spec)
}

// Filter returns the ACOS filter.
func (s *Session) Filter() results.FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Filter()
}

// SetLimit changes the display limit of one table.
func (s *Session) SetLimit(category model.Category, limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetLimit(category, limit)
}

// Limit returns the display limit of one table.
func (s *Session) Limit(category model.Category) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Limit(category)
}

// View derives one table.
func (s *Session) View(category model.Category) results.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.View(category)
}

// Snapshot is a consistent copy of everything a tab renders.
type Snapshot struct {
	Sort          *results.SortSpec
	Filter        results.FilterSpec
	ProductType   model.ProductType
	SearchFile    string
	TargetingFile string
	Error         string
	Status        string
	Views         []results.View
	Threshold     int
	State         results.State
	Loading       bool
}

// Snapshot captures the session under a single lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ProductType:   s.productType,
		SearchFile:    s.searchFile,
		TargetingFile: s.targetingFile,
		Threshold:     s.effectiveThreshold(),
		Loading:       s.loading,
		Error:         s.errMsg,
		Status:        s.status,
		State:         s.store.State(),
		Filter:        s.store.Filter(),
		Views:         s.store.Views(),
	}
	if spec, ok := s.store.Sort(); ok {
		snap.Sort = &spec
	}
	return snap
}
