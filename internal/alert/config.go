package alert

// Config defines a webhook alert destination.
type Config struct {
	URL     string            `yaml:"url"     json:"url"`
	Format  string            `yaml:"format"  json:"format"` // "generic", "slack", "pagerduty"
	Events  []string          `yaml:"events"  json:"events"` // ["violation", "view_violation", "block", "crash"]
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// Event is the payload sent to webhook endpoints.
type Event struct {
	Timestamp  string `json:"timestamp"`
	Capability string `json:"capability,omitempty"`
	Context    string `json:"context,omitempty"`
	Component  string `json:"component"`
	Role       string `json:"role"`
	Location   string `json:"location,omitempty"`
	Reason     string `json:"reason"`
	Policy     string `json:"policy"`
	Type       string `json:"type"` // "violation" or "view_violation"
}
