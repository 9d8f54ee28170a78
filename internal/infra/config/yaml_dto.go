package config

type YAMLFile struct {
	PSLBench YAMLConfig `yaml:"pslbench"`
}

type YAMLConfig struct {
	Experiment string        `yaml:"experiment"`
	Iterations *int          `yaml:"iterations"`
	Backends   []YAMLBackend `yaml:"backends"`
	Splits     []string      `yaml:"splits"`

	Paths YAMLPaths `yaml:"paths"`
	Run   YAMLRun   `yaml:"run"`
	Data  YAMLData  `yaml:"data"`
}

type YAMLBackend struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

type YAMLPaths struct {
	ResultsDir string `yaml:"results_dir"`
}

type YAMLRun struct {
	Script  string   `yaml:"script"`
	CLIDir  string   `yaml:"cli_dir"`
	Stdout  string   `yaml:"stdout"`
	Stderr  string   `yaml:"stderr"`
	Outputs []string `yaml:"outputs"`
}

type YAMLData struct {
	Glob         string `yaml:"glob"`
	Match        string `yaml:"match"`
	Replace      string `yaml:"replace"`
	BackupSuffix string `yaml:"backup_suffix"`
}
