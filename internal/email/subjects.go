package email

const (
	subjectLeadAssigned   = "New lead assigned to your agency"
	subjectLeadReassigned = "A lead has been reassigned to your agency"
)
