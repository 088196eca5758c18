package notify

// CaseCreatedEvent is sent when a case is registered with an assignee already set.
type CaseCreatedEvent struct {
	CaseID       uint
	CaseNumber   string
	Title        string
	Priority     string
	ReporterName string
	AssigneeName string
}

// CaseAssignedEvent is sent when a case is assigned (or reassigned).
type CaseAssignedEvent struct {
	CaseID       uint
	CaseNumber   string
	Title        string
	Priority     string
	AssignerName string
	AssigneeName string
}
