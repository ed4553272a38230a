package workitem

// Status represents the workflow state of a work item.
// The valid set depends on the item's Kind.
type Status string

// Team task statuses
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Feature statuses (in-progress, review and completed are shared with team tasks)
const (
	StatusBacklog Status = "backlog"
	StatusTodo    Status = "todo"
	StatusDone    Status = "done"
)

var validStatuses = map[Kind]map[Status]bool{
	KindTeamTask: {
		StatusPending:    true,
		StatusInProgress: true,
		StatusReview:     true,
		StatusCompleted:  true,
		StatusCancelled:  true,
	},
	KindFeature: {
		StatusBacklog:    true,
		StatusTodo:       true,
		StatusInProgress: true,
		StatusReview:     true,
		StatusDone:       true,
		StatusCompleted:  true,
	},
}

// done and completed are synonyms for features only
var finishedStatuses = map[Kind]map[Status]bool{
	KindTeamTask: {StatusCompleted: true},
	KindFeature:  {StatusDone: true, StatusCompleted: true},
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// IsValidFor reports whether the status belongs to the kind's status set
func (s Status) IsValidFor(kind Kind) bool {
	return validStatuses[kind][s]
}

// IsFinished reports whether the status is terminal-and-billable for the kind
func IsFinished(kind Kind, s Status) bool {
	return finishedStatuses[kind][s]
}

// CanonicalFinished returns the status the repairer writes when it closes an item
func CanonicalFinished(kind Kind) Status {
	if kind == KindFeature {
		return StatusDone
	}
	return StatusCompleted
}
