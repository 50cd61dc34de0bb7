package kernel

type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (r JobID) String() string { return string(r) }
func (r JobID) IsEmpty() bool  { return string(r) == "" }

type ApplicationID string

func NewApplicationID(id string) ApplicationID { return ApplicationID(id) }
func (r ApplicationID) String() string         { return string(r) }
func (r ApplicationID) IsEmpty() bool          { return string(r) == "" }

// ApplicationIDs converts raw ids, skipping empty ones
func ApplicationIDs(raw []string) []ApplicationID {
	ids := make([]ApplicationID, 0, len(raw))
	for _, r := range raw {
		if r != "" {
			ids = append(ids, ApplicationID(r))
		}
	}
	return ids
}
