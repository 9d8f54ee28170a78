package domain

// Example is one PSL example directory on disk.
type Example struct {
	Name string
	Dir  string

	// CLIDir is where the run script lives and where PSL writes its outputs.
	CLIDir string

	// DataFiles are the *.data files that carry split-specific paths.
	DataFiles []string

	Splits []string
}

// WorkspaceSpec describes a workspace to scaffold.
type WorkspaceSpec struct {
	Root string
}
