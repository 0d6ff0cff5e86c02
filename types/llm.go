package types

// PrioritizeItem is one entry of the oracle request: a pending task
// flattened to the fields the model ranks on. Deadline is a YYYY-MM-DD
// date; Importance is the user-declared priority, defaulted to "medium"
// when missing.
type PrioritizeItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Importance  string `json:"importance"`
}

// PrioritizedTask is one entry of the oracle response: the request item
// echoed back with a rank and a justification. Priority starts at 1 for
// the highest-ranked item.
type PrioritizedTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Importance  string `json:"importance"`
	Reason      string `json:"reason"`
	Priority    int    `json:"priority"`
}
