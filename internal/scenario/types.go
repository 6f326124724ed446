package scenario

// ScenarioAccess defines the access under test. Capability cases set
// capability and role; view observation cases set context and view_role.
type ScenarioAccess struct {
	Capability string `yaml:"capability,omitempty"`
	Role       string `yaml:"role,omitempty"`
	Context    string `yaml:"context,omitempty"`
	ViewRole   string `yaml:"view_role,omitempty"`
	Component  string `yaml:"component,omitempty"`
}

// Case is one assertion within a scenario.
type Case struct {
	Access ScenarioAccess `yaml:"access"`
	Expect string         `yaml:"expect"`
}

// Scenario is a named collection of access assertion cases. Overrides
// reclassify capabilities for the whole scenario, so teams can assert
// what a planned migration would do to their call sites.
type Scenario struct {
	Name      string            `yaml:"name"`
	Overrides map[string]string `yaml:"overrides,omitempty"`
	Cases     []Case            `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one test case.
type CaseResult struct {
	Index    int    `json:"index"`
	Passed   bool   `json:"passed"`
	Target   string `json:"target"`
	Role     string `json:"role"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Reason   string `json:"reason,omitempty"`
}

// RunResult is the outcome of running all cases in one scenario file.
type RunResult struct {
	File   string       `json:"file"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
