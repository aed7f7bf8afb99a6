package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newInstallCmd builds the install command: it stores the API key in a
// local .env file with owner-only permissions and registers the server
// with Claude Desktop.
func newInstallCmd(logger *log.Logger) *cobra.Command {
	var apiKey string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install and configure the Tempo AI MCP server for Claude Desktop",
		Long: `Install and configure the Tempo AI MCP server for Claude Desktop.

This command will:
  1. Prompt for your Tempo AI API key (if not provided)
  2. Store the key in a .env file readable only by you
  3. Register the MCP server with Claude Desktop

After running this command, restart Claude Desktop to start using the
Tempo AI tools.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(apiKey)
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("TEMPO_API_KEY"), "Tempo AI API key (will prompt if not provided)")

	return cmd
}

func runInstall(apiKey string) error {
	fmt.Println()
	fmt.Println("+------------------------------------------------------------+")
	fmt.Println("|           Tempo AI MCP Server Setup                        |")
	fmt.Println("+------------------------------------------------------------+")
	fmt.Println()

	if apiKey == "" {
		fmt.Println("🔑 API Key Setup")
		fmt.Println()
		fmt.Println("To get your API key:")
		fmt.Println("  1. Log in at https://jointempo.ai/signin")
		fmt.Println("  2. Go to Settings > Developer")
		fmt.Println("  3. Generate a new API key")
		fmt.Println()
		fmt.Print("Enter your Tempo AI API key: ")

		entered, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		apiKey = string(entered)
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("API key is required")
	}

	fmt.Println()
	fmt.Println("📝 Creating environment configuration...")
	envFile, err := writeEnvFile(apiKey)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Environment configured (%s)\n", envFile)

	fmt.Println("🔧 Configuring Claude Desktop...")
	configPath, err := registerWithClaudeDesktop(apiKey)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Claude Desktop configured (%s)\n", configPath)

	fmt.Println()
	fmt.Println("🎉 Installation complete!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Restart Claude Desktop")
	fmt.Println("  2. Start a new conversation and ask about your workouts!")
	fmt.Println()

	return nil
}

// writeEnvFile persists the credential with owner-only permissions under
// the user's config directory.
func writeEnvFile(apiKey string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}

	dir := filepath.Join(configDir, "tempoai")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("API_KEY="+apiKey+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", envFile, err)
	}

	return envFile, nil
}

// registerWithClaudeDesktop adds (or replaces) the TempoAI entry in the
// Claude Desktop configuration, preserving everything else in the file.
func registerWithClaudeDesktop(apiKey string) (string, error) {
	configPath, err := claudeDesktopConfigPath()
	if err != nil {
		return "", err
	}

	config := map[string]any{}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return "", fmt.Errorf("existing Claude Desktop config is not valid JSON: %w", err)
		}
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}

	servers, _ := config["mcpServers"].(map[string]any)
	if servers == nil {
		servers = map[string]any{}
	}
	servers["TempoAI"] = map[string]any{
		"command": exe,
		"args":    []string{"serve"},
		"env":     map[string]string{"API_KEY": apiKey},
	}
	config["mcpServers"] = servers

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(configPath), err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	// The entry embeds the API key, so keep the file owner-only.
	if err := os.WriteFile(configPath, append(data, '\n'), 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	return configPath, nil
}

func claudeDesktopConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Claude", "claude_desktop_config.json"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "Claude", "claude_desktop_config.json"), nil
	default:
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json"), nil
	}
}
