package exec

// Input represents a local command execution request
type Input struct {
	Workdir      string            `json:"workdir,omitempty" description:"directory where commands start"`
	Env          map[string]string `json:"env,omitempty" description:"environment variables to be set before command runs"`
	Commands     []string          `json:"commands,omitempty" description:"commands to execute on the local system"`
	TimeoutMs    int               `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty" description:"max wait time before timing out command"`
	AbortOnError *bool             `json:"abortOnError,omitempty" description:"stop executing remaining commands when one exits with a non zero status"`
}
