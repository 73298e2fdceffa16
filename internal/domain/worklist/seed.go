package worklist

import "time"

// Seed dataset for the demo worklist: ten patients and five chest X-ray
// studies in mixed workflow states. SeedStudies returns fresh copies so a
// reload always reproduces the same rows regardless of what analysis has
// done to the previous generation.

func seedDate(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}

// SeedPatients returns the fixed patient roster.
func SeedPatients() []Patient {
	return []Patient{
		{ID: "P001", FirstName: "Michael", LastName: "Anderson", MRN: "12847563", DOB: "1962-08-15", Sex: "M"},
		{ID: "P002", FirstName: "Sarah", LastName: "Johnson", MRN: "12847564", DOB: "1978-03-22", Sex: "F"},
		{ID: "P003", FirstName: "Robert", LastName: "Williams", MRN: "12847565", DOB: "1955-11-08", Sex: "M"},
		{ID: "P004", FirstName: "Jennifer", LastName: "Brown", MRN: "12847566", DOB: "1985-06-30", Sex: "F"},
		{ID: "P005", FirstName: "David", LastName: "Martinez", MRN: "12847567", DOB: "1970-09-12", Sex: "M"},
		{ID: "P006", FirstName: "Lisa", LastName: "Garcia", MRN: "12847568", DOB: "1992-02-18", Sex: "F"},
		{ID: "P007", FirstName: "James", LastName: "Davis", MRN: "12847569", DOB: "1948-07-25", Sex: "M"},
		{ID: "P008", FirstName: "Maria", LastName: "Rodriguez", MRN: "12847570", DOB: "1967-12-03", Sex: "F"},
		{ID: "P009", FirstName: "Thomas", LastName: "Wilson", MRN: "12847571", DOB: "1980-04-16", Sex: "M"},
		{ID: "P010", FirstName: "Patricia", LastName: "Moore", MRN: "12847572", DOB: "1973-10-29", Sex: "F"},
	}
}

// SeedStudies returns the fixed study rows, one fresh copy per call.
func SeedStudies() []*Study {
	patients := SeedPatients()
	reportedAt := seedDate("2025-10-08T11:45:00Z")

	return []*Study{
		{
			ID:              "ST001",
			PatientID:       "P001",
			Patient:         patients[0],
			Description:     "Chest X-Ray, 2 Views (PA + Lateral)",
			Modality:        ModalityXR,
			StudyDate:       seedDate("2025-10-08T08:30:00Z"),
			AccessionNumber: "ACC2025100801",
			Status:          StatusCritical,
			Priority:        PriorityStat,
			Views:           []string{"PA (Frontal)", "Lateral"},
			ImageURLs: []string{
				"https://images.unsplash.com/photo-1559757175-0eb30cd8c063?w=800&h=600&fit=crop",
				"https://images.unsplash.com/photo-1631815588090-d4bfec5b1ccb?w=800&h=600&fit=crop",
			},
		},
		{
			ID:              "ST002",
			PatientID:       "P002",
			Patient:         patients[1],
			Description:     "Chest X-Ray, 1 View (PA)",
			Modality:        ModalityXR,
			StudyDate:       seedDate("2025-10-08T09:15:00Z"),
			AccessionNumber: "ACC2025100802",
			Status:          StatusPending,
			Priority:        PriorityRoutine,
			Views:           []string{"PA (Frontal)"},
			ImageURLs: []string{
				"https://images.unsplash.com/photo-1559757175-0eb30cd8c063?w=800&h=600&fit=crop",
			},
		},
		{
			ID:              "ST003",
			PatientID:       "P003",
			Patient:         patients[2],
			Description:     "Chest X-Ray, 2 Views (PA + Lateral)",
			Modality:        ModalityXR,
			StudyDate:       seedDate("2025-10-08T10:00:00Z"),
			AccessionNumber: "ACC2025100803",
			Status:          StatusInProgress,
			Priority:        PriorityUrgent,
			Views:           []string{"PA (Frontal)", "Lateral"},
			ImageURLs: []string{
				"https://images.unsplash.com/photo-1559757175-0eb30cd8c063?w=800&h=600&fit=crop",
				"https://images.unsplash.com/photo-1631815588090-d4bfec5b1ccb?w=800&h=600&fit=crop",
			},
		},
		{
			ID:              "ST004",
			PatientID:       "P004",
			Patient:         patients[3],
			Description:     "Chest X-Ray, 1 View (PA)",
			Modality:        ModalityXR,
			StudyDate:       seedDate("2025-10-08T10:45:00Z"),
			AccessionNumber: "ACC2025100804",
			Status:          StatusPending,
			Priority:        PriorityRoutine,
			Views:           []string{"PA (Frontal)"},
			ImageURLs: []string{
				"https://images.unsplash.com/photo-1559757175-0eb30cd8c063?w=800&h=600&fit=crop",
			},
		},
		{
			ID:              "ST005",
			PatientID:       "P005",
			Patient:         patients[4],
			Description:     "Chest X-Ray, 2 Views (PA + Lateral)",
			Modality:        ModalityXR,
			StudyDate:       seedDate("2025-10-08T11:30:00Z"),
			AccessionNumber: "ACC2025100805",
			Status:          StatusCompleted,
			Priority:        PriorityRoutine,
			Views:           []string{"PA (Frontal)", "Lateral"},
			ImageURLs: []string{
				"https://images.unsplash.com/photo-1559757175-0eb30cd8c063?w=800&h=600&fit=crop",
				"https://images.unsplash.com/photo-1631815588090-d4bfec5b1ccb?w=800&h=600&fit=crop",
			},
			ReportedBy: "Dr. Evelyn Reed",
			ReportedAt: &reportedAt,
		},
	}
}
