package provisioning

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// FirewallExisted is set when the access rule was already present.
	FirewallExisted bool

	// Instance is the read-back description of the created VM.
	Instance *Instance
	// Address is the instance's external address.
	Address string

	// ProbeAttempts is the number of SSH attempts the reachability phase made.
	ProbeAttempts int
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}
