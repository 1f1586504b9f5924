package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// knownEditors maps a menu label to its navigate command template.
var knownEditors = []struct {
	Name     string
	Template string
}{
	{"VS Code", "code -g {file}:{line}:{column}"},
	{"Vim", "vim +{line} {file}"},
	{"Neovim", "nvim +{line} {file}"},
	{"Emacs", "emacsclient -n +{line}:{column} {file}"},
	{"Custom", ""},
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to systerview! Let's configure your workspace.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Workspace root.
	workspacePrompt := promptui.Prompt{
		Label:   "Workspace root",
		Default: cfg.Workspace,
	}
	workspace, err := workspacePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("workspace selection: %w", err)
	}
	cfg.Workspace = workspace

	// 2. Panel port.
	portPrompt := promptui.Prompt{
		Label:   "Panel port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port selection: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 3. Language server command.
	serverPrompt := promptui.Prompt{
		Label:   "Syster language server command",
		Default: cfg.Server.Command,
	}
	serverCmd, err := serverPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server selection: %w", err)
	}
	cfg.Server.Command = serverCmd

	// 4. Editor for navigate.
	items := make([]string, len(knownEditors))
	for i, e := range knownEditors {
		items[i] = e.Name
	}
	editorPrompt := promptui.Select{
		Label: "Editor for code navigation",
		Items: items,
	}
	idx, _, err := editorPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("editor selection: %w", err)
	}
	cfg.Editor = knownEditors[idx].Template
	if cfg.Editor == "" {
		customPrompt := promptui.Prompt{
			Label:   "Editor command ({file}, {line}, {column} are substituted)",
			Default: DefaultEditor,
		}
		custom, err := customPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("editor command: %w", err)
		}
		cfg.Editor = custom
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
