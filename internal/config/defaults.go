package config

// DefaultExcludes are glob patterns the workspace watcher skips by default.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
	"dist/**",
	"build/**",
	"target/**",
}

// DefaultEditor is the navigate command template. {file}, {line} and
// {column} are substituted with the navigation target (one-based).
const DefaultEditor = "code -g {file}:{line}:{column}"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:      7642,
		Workspace: ".",
		Server: ServerConfig{
			Command: "syster-language-server",
			Args:    []string{"--stdio"},
		},
		Editor:   DefaultEditor,
		Include:  []string{"**/*.sysml", "**/*.kerml"},
		Exclude:  DefaultExcludes,
		LogLevel: "info",
	}
}
