package worklist

import "time"

// Patient is an immutable identity record sourced from the seed list.
type Patient struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	MRN       string `json:"mrn"`
	DOB       string `json:"dob"`
	Sex       string `json:"sex"`
}

// Modality tags supported by the workstation.
const (
	ModalityXR  = "XR"
	ModalityCT  = "CT"
	ModalityMRI = "MRI"
	ModalityUS  = "US"
)

// Workflow status of a study. The pre-analysis tags come from seed data;
// the analysis workflow is the only writer and only ever moves a study to
// StatusCompleted.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCritical   = "critical"
)

// ValidStatuses enumerates the study workflow statuses.
var ValidStatuses = map[string]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCritical:   true,
}

// Clinical priority of a study.
const (
	PriorityRoutine = "routine"
	PriorityUrgent  = "urgent"
	PriorityStat    = "stat"
)

// Study is one imaging order. ImageURLs[i] is the image for Views[i]; the
// two slices always have the same length. Report is nil until the analysis
// workflow has run at least once for the study, after which it is always
// present — possibly with an empty Findings slice, meaning a normal study
// with nothing above threshold.
type Study struct {
	ID              string          `json:"id"`
	PatientID       string          `json:"patientId"`
	Patient         Patient         `json:"patient"`
	Description     string          `json:"studyDescription"`
	Modality        string          `json:"modality"`
	StudyDate       time.Time       `json:"studyDate"`
	AccessionNumber string          `json:"accessionNumber"`
	Status          string          `json:"status"`
	Priority        string          `json:"priority"`
	Views           []string        `json:"views"`
	ImageURLs       []string        `json:"imageUrls"`
	PriorStudyID    string          `json:"priorStudyId,omitempty"`
	Report          *AnalysisReport `json:"report,omitempty"`
	ReportedBy      string          `json:"reportedBy,omitempty"`
	ReportedAt      *time.Time      `json:"reportedAt,omitempty"`
}

// Analyzed reports whether the analysis workflow has run for this study.
func (s *Study) Analyzed() bool {
	return s.Report != nil
}

// Clone returns a deep copy so callers can hand studies out without
// exposing the catalog's backing slices.
func (s *Study) Clone() *Study {
	copied := *s
	copied.Views = append([]string(nil), s.Views...)
	copied.ImageURLs = append([]string(nil), s.ImageURLs...)
	if s.Report != nil {
		copied.Report = s.Report.Clone()
	}
	if s.ReportedAt != nil {
		at := *s.ReportedAt
		copied.ReportedAt = &at
	}
	return &copied
}

// AnalysisReport is the findings batch attached by a completed analysis
// run. An empty Findings slice is a valid result: analyzed, normal.
type AnalysisReport struct {
	Findings    []Finding `json:"findings"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Clone returns a deep copy of the report.
func (r *AnalysisReport) Clone() *AnalysisReport {
	copied := &AnalysisReport{GeneratedAt: r.GeneratedAt}
	copied.Findings = make([]Finding, len(r.Findings))
	for i, f := range r.Findings {
		copied.Findings[i] = f
		copied.Findings[i].DifferentialDiagnoses = append([]string(nil), f.DifferentialDiagnoses...)
		copied.Findings[i].HeatmapRegions = append([]HeatmapRegion(nil), f.HeatmapRegions...)
	}
	return copied
}

// Finding is one AI-flagged pathology candidate.
type Finding struct {
	Pathology              string          `json:"pathology"`
	Confidence             int             `json:"confidence"`
	Description            string          `json:"description"`
	ClinicalContext        string          `json:"clinicalContext"`
	QuantitativeAssessment string          `json:"quantitativeAssessment,omitempty"`
	TemporalAnalysis       string          `json:"temporalAnalysis,omitempty"`
	DifferentialDiagnoses  []string        `json:"differentialDiagnoses,omitempty"`
	SimilarCases           int             `json:"similarCases,omitempty"`
	HeatmapRegions         []HeatmapRegion `json:"heatmapCoordinates,omitempty"`
}

// HeatmapRegion is a normalized rectangle with an intensity weight used to
// render the mock AI-attention overlay.
type HeatmapRegion struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Intensity float64 `json:"intensity"`
}

// Pathologies is the fixed 14-label vocabulary findings are drawn from.
var Pathologies = []string{
	"Atelectasis",
	"Cardiomegaly",
	"Consolidation",
	"Edema",
	"Effusion",
	"Emphysema",
	"Fibrosis",
	"Hernia",
	"Infiltration",
	"Mass",
	"Nodule",
	"Pleural Thickening",
	"Pneumonia",
	"Pneumothorax",
}
