package workitem

// Kind identifies which store a work item lives in.
// The string value doubles as the prefix of the billing dedup key.
type Kind string

const (
	KindTeamTask Kind = "team-task"
	KindFeature  Kind = "feature"
)

// Kinds lists every kind in processing order
var Kinds = []Kind{KindTeamTask, KindFeature}

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// IsValid validates the kind
func (k Kind) IsValid() bool {
	switch k {
	case KindTeamTask, KindFeature:
		return true
	default:
		return false
	}
}

// SourceKey builds the composite dedup key "{kind}-{id}"
func SourceKey(kind Kind, id string) string {
	return string(kind) + "-" + id
}
