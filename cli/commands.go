package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	LogLevel  string `help:"Log level (trace, debug, info, warn, error). Defaults to the configured level." name:"log-level"`
	Config    string `help:"Configuration file. Defaults to sie.yaml in the working or user config directory." type:"path"`
}

type Commands struct {
	Globals

	Check   CheckCmd   `cmd:"" help:"Parse and check a SIE file."`
	Format  FormatCmd  `cmd:"" help:"Write a SIE file in canonical form."`
	Compare CompareCmd `cmd:"" help:"Compare the contents of two SIE files."`
	Probe   ProbeCmd   `cmd:"" help:"Print the SIE type of files without parsing them fully."`
	Doctor  DoctorCmd  `cmd:"" help:"Doctor utilities for debugging SIE files."`
	Web     WebCmd     `cmd:"" help:"Start a read-only web inspector."`
}
