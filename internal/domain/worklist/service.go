package worklist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skolyn/workstation/internal/platform/imagestore"
	"github.com/skolyn/workstation/internal/platform/ws"
)

var (
	// ErrNoStudySelected is returned by workspace operations that need a
	// current study when none is selected.
	ErrNoStudySelected = errors.New("no study selected")
	// ErrAnalysisRunning is returned when an analysis is started for a
	// study that already has one in flight.
	ErrAnalysisRunning = errors.New("analysis already running for this study")
)

// FilterAll disables status filtering.
const FilterAll = "all"

// uploadAnalysisDelay is the pause between accepting an upload and kicking
// off its analysis, long enough for a client to see the pending state.
const uploadAnalysisDelay = time.Second

// Workspace is a point-in-time snapshot of the selection and analysis
// state. PriorStudy is only populated while comparison mode is on and a
// prior study for the same patient exists.
type Workspace struct {
	CurrentStudyID   string  `json:"currentStudyId,omitempty"`
	SelectedView     int     `json:"selectedView"`
	ComparisonMode   bool    `json:"comparisonMode"`
	PriorStudy       *Study  `json:"priorStudy,omitempty"`
	SearchQuery      string  `json:"searchQuery"`
	FilterStatus     string  `json:"filterStatus"`
	IsAnalyzing      bool    `json:"isAnalyzing"`
	AnalysisProgress float64 `json:"analysisProgress"`
}

// MetricsRecorder receives business events from the service. The server
// wires this to Prometheus; tests leave it nil.
type MetricsRecorder interface {
	RecordUpload(result string)
	RecordAnalysis(severity Severity, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordUpload(string)                    {}
func (noopMetrics) RecordAnalysis(Severity, time.Duration) {}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ws.Event) error { return nil }

// Service owns the study catalog, the workspace selection state, and the
// analysis workflow. All state transitions go through it; the repository
// only ever sees whole studies.
type Service struct {
	repo      StudyRepository
	analyzer  *Analyzer
	images    *imagestore.Store
	publisher ws.Publisher
	metrics   MetricsRecorder
	logger    zerolog.Logger

	mu             sync.Mutex
	currentID      string
	selectedView   int
	comparisonMode bool
	priorStudy     *Study
	searchQuery    string
	filterStatus   string
	running        map[string]bool
	progress       map[string]Progress

	runCtx      context.Context
	cancelRuns  context.CancelFunc
	wg          sync.WaitGroup
	uploadDelay time.Duration
}

// NewService creates a Service. publisher and metrics may be nil.
func NewService(repo StudyRepository, analyzer *Analyzer, images *imagestore.Store, publisher ws.Publisher, metrics MetricsRecorder, logger zerolog.Logger) *Service {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		repo:         repo,
		analyzer:     analyzer,
		images:       images,
		publisher:    publisher,
		metrics:      metrics,
		logger:       logger,
		filterStatus: FilterAll,
		running:      make(map[string]bool),
		progress:     make(map[string]Progress),
		runCtx:       ctx,
		cancelRuns:   cancel,
		uploadDelay:  uploadAnalysisDelay,
	}
}

// SetUploadDelay overrides the pause before an uploaded study is analyzed.
func (s *Service) SetUploadDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadDelay = d
}

// Close cancels in-flight analysis runs and waits for them to drain.
func (s *Service) Close() {
	s.cancelRuns()
	s.wg.Wait()
}

// LoadStudies replaces the catalog with the built-in demo studies. There is
// no merge: a reload always yields the pristine seed generation.
func (s *Service) LoadStudies(ctx context.Context) error {
	return s.repo.Replace(ctx, SeedStudies())
}

// Studies returns the full catalog, front to back.
func (s *Service) Studies(ctx context.Context) ([]*Study, error) {
	return s.repo.List(ctx)
}

// Study returns a single study by id.
func (s *Service) Study(ctx context.Context, id string) (*Study, error) {
	return s.repo.Get(ctx, id)
}

// SelectStudy makes id the current study and resets the per-study view
// state: view index back to the first view, comparison mode off. Unknown
// ids leave the workspace untouched.
func (s *Service) SelectStudy(ctx context.Context, id string) (*Study, error) {
	study, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.currentID = id
	s.selectedView = 0
	s.comparisonMode = false
	s.priorStudy = nil
	s.mu.Unlock()

	return study, nil
}

// SetSelectedView selects a view of the current study. Out-of-range
// indices are clamped into [0, len(views)-1] rather than rejected, so a
// stale client can never wedge the workspace.
func (s *Service) SetSelectedView(ctx context.Context, index int) (int, error) {
	s.mu.Lock()
	id := s.currentID
	s.mu.Unlock()
	if id == "" {
		return 0, ErrNoStudySelected
	}

	study, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	if index < 0 || len(study.Views) == 0 {
		index = 0
	} else if max := len(study.Views) - 1; index > max {
		index = max
	}

	s.mu.Lock()
	s.selectedView = index
	s.mu.Unlock()
	return index, nil
}

// ToggleComparisonMode flips comparison mode for the current study. When
// turning it on, the prior study is the first other study for the same
// patient; a patient with no prior simply compares against nothing.
func (s *Service) ToggleComparisonMode(ctx context.Context) (Workspace, error) {
	s.mu.Lock()
	id := s.currentID
	enabling := !s.comparisonMode
	s.mu.Unlock()
	if id == "" {
		return Workspace{}, ErrNoStudySelected
	}

	var prior *Study
	if enabling {
		study, err := s.repo.Get(ctx, id)
		if err != nil {
			return Workspace{}, err
		}
		prior, err = s.repo.FindPrior(ctx, study.PatientID, id)
		if err != nil && !errors.Is(err, ErrStudyNotFound) {
			return Workspace{}, err
		}
	}

	s.mu.Lock()
	s.comparisonMode = enabling
	s.priorStudy = prior
	s.mu.Unlock()

	return s.Workspace(), nil
}

// SetSearchQuery updates the free-text worklist filter.
func (s *Service) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = query
}

// SetFilterStatus updates the status filter. Accepts FilterAll or one of
// the workflow statuses.
func (s *Service) SetFilterStatus(status string) error {
	if status != FilterAll && !ValidStatuses[status] {
		return fmt.Errorf("invalid status filter %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filterStatus = status
	return nil
}

// FilteredStudies returns the catalog narrowed by the current status and
// search filters, preserving catalog order.
func (s *Service) FilteredStudies(ctx context.Context) ([]*Study, error) {
	studies, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	status := s.filterStatus
	query := strings.ToLower(s.searchQuery)
	s.mu.Unlock()

	out := make([]*Study, 0, len(studies))
	for _, study := range studies {
		if status != FilterAll && study.Status != status {
			continue
		}
		if query != "" && !matchesQuery(study, query) {
			continue
		}
		out = append(out, study)
	}
	return out, nil
}

// matchesQuery tests each field independently: a study matches only when a
// single field contains the query, never a concatenation of fields.
func matchesQuery(study *Study, query string) bool {
	for _, field := range []string{
		study.Patient.FirstName,
		study.Patient.LastName,
		study.Patient.MRN,
		study.AccessionNumber,
	} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Workspace returns a snapshot of the selection and analysis state.
func (s *Service) Workspace() Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := Workspace{
		CurrentStudyID: s.currentID,
		SelectedView:   s.selectedView,
		ComparisonMode: s.comparisonMode,
		SearchQuery:    s.searchQuery,
		FilterStatus:   s.filterStatus,
	}
	if s.priorStudy != nil {
		snapshot.PriorStudy = s.priorStudy.Clone()
	}
	if s.currentID != "" {
		snapshot.IsAnalyzing = s.running[s.currentID]
		snapshot.AnalysisProgress = s.progress[s.currentID].Percent
	}
	return snapshot
}

// Progress returns the latest analysis snapshot for a study. The value
// sticks at the final snapshot after completion; ok is false for studies
// that never had a run.
func (s *Service) Progress(studyID string) (Progress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[studyID]
	return p, ok
}

// Analyzing reports whether an analysis run is in flight for the study.
func (s *Service) Analyzing(studyID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running[studyID]
}

// StartAnalysis kicks off the analysis workflow for the current study and
// returns its id. At most one run per study may be in flight; a second
// start while one is running fails with ErrAnalysisRunning. The run itself
// proceeds in the background: progress snapshots are observable via
// Progress and published to the study's analysis topic, and on completion
// the canned findings batch for the study's severity is attached, the
// status moves to completed, and the progress value stays pinned at 100.
func (s *Service) StartAnalysis(ctx context.Context) (string, error) {
	s.mu.Lock()
	id := s.currentID
	s.mu.Unlock()
	if id == "" {
		return "", ErrNoStudySelected
	}
	return id, s.startAnalysisFor(ctx, id)
}

func (s *Service) startAnalysisFor(ctx context.Context, id string) error {
	study, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.running[id] {
		s.mu.Unlock()
		return ErrAnalysisRunning
	}
	s.running[id] = true
	s.progress[id] = Progress{StudyID: id, Steps: s.analyzer.Steps()}
	s.mu.Unlock()

	s.publish(ws.EventAnalysisStarted, ws.AnalysisTopic(id), id, nil)
	s.logger.Info().Str("study_id", id).Msg("analysis started")

	s.wg.Add(1)
	go s.runAnalysis(study)
	return nil
}

func (s *Service) runAnalysis(study *Study) {
	defer s.wg.Done()

	id := study.ID
	start := time.Now()

	last := Progress{StudyID: id, Step: -1, Steps: s.analyzer.Steps()}
	for snapshot := range s.analyzer.Run(s.runCtx, id) {
		last = snapshot
		s.mu.Lock()
		s.progress[id] = snapshot
		s.mu.Unlock()
		s.publish(ws.EventAnalysisProgress, ws.AnalysisTopic(id), id, snapshot)
	}

	if !last.Done() {
		// Cancelled mid-run: drop all trace of it and leave the study
		// exactly as it was.
		s.mu.Lock()
		delete(s.running, id)
		delete(s.progress, id)
		s.mu.Unlock()
		s.logger.Info().Str("study_id", id).Msg("analysis cancelled")
		return
	}

	severity := SeverityForStudy(study)
	study.Report = &AnalysisReport{
		Findings:    GenerateFindings(severity),
		GeneratedAt: time.Now().UTC(),
	}
	study.Status = StatusCompleted

	if err := s.repo.Update(s.runCtx, study); err != nil {
		s.logger.Error().Err(err).Str("study_id", id).Msg("failed to persist analysis result")
	}

	elapsed := time.Since(start)
	s.metrics.RecordAnalysis(severity, elapsed)
	s.publish(ws.EventAnalysisCompleted, ws.AnalysisTopic(id), id, map[string]any{
		"severity": severity,
		"findings": len(study.Report.Findings),
	})

	// Clear the in-flight flag last so observers that see the run end also
	// see the persisted result and recorded metrics.
	s.mu.Lock()
	delete(s.running, id)
	s.mu.Unlock()
	s.logger.Info().
		Str("study_id", id).
		Str("severity", string(severity)).
		Int("findings", len(study.Report.Findings)).
		Dur("elapsed", elapsed).
		Msg("analysis completed")
}

// IngestUpload validates an uploaded radiograph, stores it, wraps it in a
// new pending study at the front of the worklist, selects that study, and
// schedules its analysis after a short delay. Rejected uploads touch no
// catalog state.
func (s *Service) IngestUpload(ctx context.Context, fileName, contentType string, content io.Reader) (*Study, error) {
	meta, err := s.images.Put(ctx, fileName, contentType, content)
	if err != nil {
		s.metrics.RecordUpload("rejected")
		return nil, err
	}

	now := time.Now()
	suffix := strings.ToUpper(uuid.New().String()[:8])
	study := &Study{
		ID:        "ST-" + suffix,
		PatientID: "P-" + suffix,
		Patient: Patient{
			ID:        "P-" + suffix,
			FirstName: "Uploaded",
			LastName:  "Study",
			MRN:       fmt.Sprintf("UPL%06d", now.UnixMilli()%1000000),
			DOB:       now.Format("2006-01-02"),
			Sex:       "M",
		},
		Description:     "Chest X-Ray, Uploaded Study",
		Modality:        ModalityXR,
		StudyDate:       now.UTC(),
		AccessionNumber: fmt.Sprintf("ACC%d", now.UnixMilli()),
		Status:          StatusPending,
		Priority:        PriorityRoutine,
		Views:           []string{"Uploaded View"},
		ImageURLs:       []string{meta.URL()},
	}

	if err := s.repo.Insert(ctx, study); err != nil {
		// Don't leave the image orphaned when the catalog write fails.
		s.images.Delete(ctx, meta.ID)
		s.metrics.RecordUpload("rejected")
		return nil, err
	}
	s.metrics.RecordUpload("accepted")

	s.mu.Lock()
	s.currentID = study.ID
	s.selectedView = 0
	s.comparisonMode = false
	s.priorStudy = nil
	delay := s.uploadDelay
	s.mu.Unlock()

	s.publish(ws.EventStudyAdded, ws.TopicWorklist, study.ID, study)
	s.logger.Info().
		Str("study_id", study.ID).
		Str("file_name", fileName).
		Int64("size", meta.Size).
		Msg("upload accepted")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-s.runCtx.Done():
			return
		case <-time.After(delay):
		}
		if err := s.startAnalysisFor(s.runCtx, study.ID); err != nil && !errors.Is(err, ErrAnalysisRunning) {
			s.logger.Error().Err(err).Str("study_id", study.ID).Msg("failed to start upload analysis")
		}
	}()

	return study, nil
}

func (s *Service) publish(eventType, topic, studyID string, payload any) {
	event := ws.Event{
		Type:      eventType,
		Topic:     topic,
		StudyID:   studyID,
		Timestamp: time.Now().UTC(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			s.logger.Error().Err(err).Str("event", eventType).Msg("failed to encode event payload")
			return
		}
		event.Data = data
	}
	if err := s.publisher.Publish(context.Background(), event); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
