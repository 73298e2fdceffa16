package session

// Session is the authenticated-user record for the workstation. One session
// at a time is held in memory and mirrored to a single durable slot so that
// a client reload can restore it.
type Session struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
	Token        string `json:"token"`
}

// Demo identity established by every successful login. Authentication here
// is an explicit mock rule (password length), not credential verification.
const (
	demoUserName     = "Dr. Evelyn Reed"
	demoUserRole     = "Radiologist"
	demoOrganization = "Stanford Medical Center"
)

// MinPasswordLength is the only credential rule the mock login enforces.
const MinPasswordLength = 8
