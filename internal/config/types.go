package config

// ServerConfig identifies the collaborating language server. Command is
// resolved on PATH; an empty value falls back to the fixed default
// identifier.
type ServerConfig struct {
	Command string   `yaml:"command" koanf:"command"`
	Args    []string `yaml:"args" koanf:"args"`
}

// Config is the top-level systerview configuration, corresponding to
// .systerview.yml.
type Config struct {
	Port      int          `yaml:"port" koanf:"port"`
	Workspace string       `yaml:"workspace" koanf:"workspace"`
	Server    ServerConfig `yaml:"server" koanf:"server"`
	Editor    string       `yaml:"editor" koanf:"editor"`
	Include   []string     `yaml:"include" koanf:"include"`
	Exclude   []string     `yaml:"exclude" koanf:"exclude"`
	LogLevel  string       `yaml:"log_level" koanf:"log_level"`
	AllowAll  bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
