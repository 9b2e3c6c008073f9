package gate

// State is the position of the gate in its setup/login lifecycle.
//
//	NeedsSetup    --setup-->  NeedsLogin
//	NeedsLogin    --login-->  Authenticated
//	Authenticated --logout--> NeedsLogin
//	any           --reset-->  NeedsSetup
type State int

const (
	NeedsSetup State = iota
	NeedsLogin
	Authenticated
)

func (s State) String() string {
	switch s {
	case NeedsSetup:
		return "needs-setup"
	case NeedsLogin:
		return "needs-login"
	case Authenticated:
		return "authenticated"
	}

	return "unknown"
}
