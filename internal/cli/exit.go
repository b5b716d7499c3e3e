package cli

// ExitCodeLeak is the exit code of a simulation that left resources behind.
const ExitCodeLeak = 3

// ExitError carries a process exit code from a command to main.
type ExitError struct {
	ExitCode int
	Reason   string
}

func (e *ExitError) Error() string {
	return e.Reason
}
