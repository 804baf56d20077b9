package config

import (
	"fmt"
	"net/url"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to talkboard! Let's point it at your board.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Board URL.
	urlPrompt := promptui.Prompt{
		Label:   "Board URL",
		Default: cfg.BaseURL,
		Validate: func(s string) error {
			u, err := url.Parse(s)
			if err != nil || u.Host == "" {
				return fmt.Errorf("enter a URL like http://localhost:8000")
			}
			return nil
		},
	}
	baseURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("board url: %w", err)
	}
	cfg.BaseURL = baseURL

	// 2. Data directory.
	dirPrompt := promptui.Prompt{
		Label:   "Local data directory",
		Default: cfg.DataDir,
	}
	dataDir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	cfg.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
