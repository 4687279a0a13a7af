package entry

// Author is a work's author with a family/given name split.
type Author struct {
	Given  string `json:"given,omitempty"`
	Family string `json:"family"`
}

func (a Author) String() string {
	if a.Given == "" {
		return a.Family
	}
	return a.Given + " " + a.Family
}
