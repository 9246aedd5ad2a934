package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/samsaffron/term-chat/internal/config"
)

// backendOption represents a backend choice in the setup wizard
type backendOption struct {
	name      string
	value     string
	available bool
	hint      string // shows how to enable if not available
}

// detectAvailableBackends checks which backends have credentials configured
func detectAvailableBackends() []backendOption {
	return []backendOption{
		{
			name:      "OpenAI - OPENAI_API_KEY",
			value:     "openai",
			available: os.Getenv("OPENAI_API_KEY") != "",
			hint:      "set OPENAI_API_KEY",
		},
		{
			name:      "Anthropic - ANTHROPIC_API_KEY",
			value:     "anthropic",
			available: os.Getenv("ANTHROPIC_API_KEY") != "",
			hint:      "set ANTHROPIC_API_KEY",
		},
		{
			name:      "Gemini - GEMINI_API_KEY",
			value:     "gemini",
			available: os.Getenv("GEMINI_API_KEY") != "",
			hint:      "set GEMINI_API_KEY",
		},
		{
			name:      "AWS Bedrock - AWS credentials",
			value:     "bedrock",
			available: os.Getenv("AWS_ACCESS_KEY_ID") != "" || os.Getenv("AWS_PROFILE") != "",
			hint:      "set AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY or AWS_PROFILE",
		},
		{
			name:      "Local server (Ollama, LocalAI, ...) - no key required",
			value:     "localai",
			available: true,
			hint:      "",
		},
	}
}

// getTTY opens the controlling terminal so the wizard works even when
// stdout is redirected.
func getTTY() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_RDWR, 0)
}

// RunSetupWizard runs the first-time setup wizard, writes the config
// file, and returns the reloaded config.
func RunSetupWizard() (*config.Config, error) {
	tty, ttyErr := getTTY()
	if ttyErr == nil {
		defer tty.Close()
		fmt.Fprint(tty, "Welcome to term-chat! Let's get you set up.\n\n")
	} else {
		fmt.Fprint(os.Stderr, "Welcome to term-chat! Let's get you set up.\n\n")
	}

	backends := detectAvailableBackends()

	// Available backends first, then the rest
	var options []huh.Option[string]
	var availableOptions []huh.Option[string]
	var unavailableOptions []huh.Option[string]
	for _, b := range backends {
		if b.available {
			availableOptions = append(availableOptions, huh.NewOption(b.name+" ✓", b.value))
		} else {
			unavailableOptions = append(unavailableOptions, huh.NewOption(b.name+" (not set)", b.value))
		}
	}
	options = append(options, availableOptions...)
	options = append(options, unavailableOptions...)

	var backend string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which backend do you want to use?").
				Description("Backends marked ✓ are ready to use").
				Options(options...).
				Value(&backend),
		),
	)

	if ttyErr == nil {
		formTTY, _ := getTTY()
		defer formTTY.Close()
		form = form.WithInput(formTTY).WithOutput(formTTY)
	}

	if err := form.Run(); err != nil {
		return nil, err
	}

	var selected *backendOption
	for i := range backends {
		if backends[i].value == backend {
			selected = &backends[i]
			break
		}
	}
	if selected != nil && !selected.available {
		return nil, fmt.Errorf("backend %s is not configured\n\n%s", selected.name, selected.hint)
	}

	entry := config.ClientEntry{"type": backend}

	// Local servers need an endpoint and at least one model name.
	if backend == "localai" {
		url := "http://localhost:11434/v1"
		model := "llama3.2"
		localForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Server URL").
					Value(&url),
				huh.NewInput().
					Title("Model name").
					Value(&model),
			),
		)
		if ttyErr == nil {
			localTTY, _ := getTTY()
			defer localTTY.Close()
			localForm = localForm.WithInput(localTTY).WithOutput(localTTY)
		}
		if err := localForm.Run(); err != nil {
			return nil, err
		}
		entry["url"] = url
		entry["models"] = []map[string]any{{"name": model}}
	}

	cfg := config.Default()
	cfg.Clients = []config.ClientEntry{entry}

	if err := config.Save(cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	path, _ := config.GetConfigPath()
	styles := DefaultStyles()
	msg := styles.FormatResult(true, fmt.Sprintf("Config saved to %s", path))
	if tty, err := getTTY(); err == nil {
		fmt.Fprintf(tty, "%s\n\n", msg)
		tty.Close()
	} else {
		fmt.Fprintf(os.Stderr, "%s\n\n", msg)
	}

	return config.Load()
}
