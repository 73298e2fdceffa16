package worklist

// Severity of a canned findings batch. The analysis simulation selects one
// of three fixed batches instead of computing anything from pixel data.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityModerate Severity = "moderate"
	SeverityCritical Severity = "critical"
)

// moderateStudyIDs are the distinguished seed studies that yield the
// moderate batch even though their status is not critical.
var moderateStudyIDs = map[string]bool{
	"ST001": true,
	"ST003": true,
}

// SeverityForStudy derives the batch severity from a study's pre-analysis
// state: critical status wins, the two distinguished ids map to moderate,
// everything else is normal.
func SeverityForStudy(s *Study) Severity {
	switch {
	case s.Status == StatusCritical:
		return SeverityCritical
	case moderateStudyIDs[s.ID]:
		return SeverityModerate
	default:
		return SeverityNormal
	}
}

// GenerateFindings returns a fresh copy of the canned batch for the given
// severity. The normal batch is empty: analyzed, nothing above threshold.
func GenerateFindings(severity Severity) []Finding {
	switch severity {
	case SeverityModerate:
		return []Finding{
			{
				Pathology:       "Pleural Effusion",
				Confidence:      89,
				Description:     "Accumulation of fluid in the pleural space between the lung and chest wall.",
				ClinicalContext: "Pleural effusion represents excess fluid in the pleural cavity, which can result from various etiologies including cardiac, infectious, malignant, or inflammatory processes.",
				QuantitativeAssessment: "• Estimated volume: Moderate (300-500ml)\n" +
					"• Distribution: Right hemithorax, basilar\n" +
					"• Blunting of costophrenic angle: Present",
				TemporalAnalysis: "Compared to study from 2025-09-15:\n" +
					"↑ Effusion volume increased ~15%\n" +
					"Recommend follow-up imaging",
				DifferentialDiagnoses: []string{
					"Congestive heart failure",
					"Pneumonia with parapneumonic effusion",
					"Malignancy",
				},
				SimilarCases: 247,
				HeatmapRegions: []HeatmapRegion{
					{X: 60, Y: 60, Width: 25, Height: 30, Intensity: 0.89},
				},
			},
			{
				Pathology:       "Cardiomegaly",
				Confidence:      76,
				Description:     "Enlarged cardiac silhouette suggesting possible cardiac pathology.",
				ClinicalContext: "Cardiomegaly on chest radiograph is defined by a cardiothoracic ratio greater than 0.50 on PA view. This finding warrants clinical correlation and may require echocardiographic evaluation.",
				QuantitativeAssessment: "• Cardiothoracic Ratio: 0.58\n" +
					"  Normal range: <0.50\n" +
					"  Interpretation: Enlarged cardiac silhouette",
				DifferentialDiagnoses: []string{
					"Dilated cardiomyopathy",
					"Valvular heart disease",
					"Pericardial effusion",
				},
				SimilarCases: 512,
				HeatmapRegions: []HeatmapRegion{
					{X: 40, Y: 45, Width: 20, Height: 25, Intensity: 0.76},
				},
			},
			{
				Pathology:       "Infiltration",
				Confidence:      62,
				Description:     "Patchy opacities suggesting possible inflammatory or infectious process.",
				ClinicalContext: "Pulmonary infiltrates represent filling of alveolar spaces with fluid, cells, or other material. Clinical correlation with patient symptoms is essential.",
				QuantitativeAssessment: "• Location: Left lower lobe\n" +
					"• Pattern: Patchy, non-segmental\n" +
					"• Density: Moderate",
				DifferentialDiagnoses: []string{
					"Community-acquired pneumonia",
					"Aspiration",
					"Atypical infection",
				},
				SimilarCases: 389,
				HeatmapRegions: []HeatmapRegion{
					{X: 30, Y: 55, Width: 15, Height: 20, Intensity: 0.62},
				},
			},
		}
	case SeverityCritical:
		return []Finding{
			{
				Pathology:       "Pneumothorax",
				Confidence:      94,
				Description:     "Presence of air in the pleural space indicating pneumothorax.",
				ClinicalContext: "Pneumothorax represents air in the pleural cavity, causing lung collapse. Large or tension pneumothorax requires immediate intervention. URGENT CLINICAL CORRELATION REQUIRED.",
				QuantitativeAssessment: "• Size: Moderate (20-30% lung volume)\n" +
					"• Location: Right apical region\n" +
					"• Tension features: Not evident\n" +
					"• Mediastinal shift: None observed",
				TemporalAnalysis: "No prior studies available for comparison.\n" +
					"NEW FINDING - Recommend immediate clinical assessment",
				DifferentialDiagnoses: []string{
					"Spontaneous pneumothorax",
					"Traumatic pneumothorax",
					"Iatrogenic (post-procedure)",
				},
				SimilarCases: 156,
				HeatmapRegions: []HeatmapRegion{
					{X: 70, Y: 20, Width: 18, Height: 25, Intensity: 0.94},
				},
			},
			{
				Pathology:       "Consolidation",
				Confidence:      81,
				Description:     "Dense opacification suggesting alveolar consolidation.",
				ClinicalContext: "Consolidation indicates complete filling of alveolar air spaces, most commonly due to pneumonia but can represent other pathologies.",
				QuantitativeAssessment: "• Location: Right middle lobe\n" +
					"• Distribution: Lobar pattern\n" +
					"• Air bronchograms: Present",
				DifferentialDiagnoses: []string{
					"Bacterial pneumonia",
					"Pulmonary hemorrhage",
					"Pulmonary edema",
				},
				SimilarCases: 423,
				HeatmapRegions: []HeatmapRegion{
					{X: 55, Y: 45, Width: 20, Height: 22, Intensity: 0.81},
				},
			},
		}
	default:
		return []Finding{}
	}
}
