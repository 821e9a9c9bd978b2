// Package claude registers the server with the Claude Code CLI.
package claude

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ServerConfig is one entry of the mcpServers map in ~/.claude.json.
type ServerConfig struct {
	Type    string   `json:"type"`
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

type settings struct {
	MCPServers map[string]ServerConfig `json:"mcpServers"`
}

// Runner executes an external command and returns its combined output.
type Runner func(name string, args ...string) ([]byte, error)

func execRunner(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Registrar adds MCP servers to Claude Code at user scope.
type Registrar struct {
	ClaudePath   string
	SettingsPath string
	Run          Runner
}

// NewRegistrar returns a Registrar using the claude binary on PATH and
// the settings file in the user's home directory.
func NewRegistrar() *Registrar {
	r := &Registrar{ClaudePath: "claude", Run: execRunner}
	if home, err := os.UserHomeDir(); err == nil {
		// MCP servers live in ~/.claude.json, not ~/.claude/settings.json
		r.SettingsPath = filepath.Join(home, ".claude.json")
	}
	return r
}

// Available checks if the claude CLI is on PATH.
func (r *Registrar) Available() error {
	if _, err := exec.LookPath(r.ClaudePath); err != nil {
		return fmt.Errorf("claude CLI not found at %q; install Claude Code to register the server", r.ClaudePath)
	}
	return nil
}

// Registered reads the current entry for name, if any. A missing or
// unparsable settings file counts as no entry.
func (r *Registrar) Registered(name string) (ServerConfig, bool) {
	if r.SettingsPath == "" {
		return ServerConfig{}, false
	}
	data, err := os.ReadFile(r.SettingsPath)
	if err != nil {
		return ServerConfig{}, false
	}
	var s settings
	if err := json.Unmarshal(data, &s); err != nil {
		return ServerConfig{}, false
	}
	cfg, ok := s.MCPServers[name]
	return cfg, ok
}

// Register points the Claude Code server entry name at binary, run with
// args. An entry already pointing at binary is left alone unless force is
// set; a stale one is removed first. It reports whether anything changed.
func (r *Registrar) Register(name, binary string, args []string, force bool) (bool, error) {
	if name == "" || binary == "" {
		return false, errors.New("server name and binary path are required")
	}

	existing, ok := r.Registered(name)
	if ok && existing.Command == binary && !force {
		return false, nil
	}
	if ok {
		r.Run(r.ClaudePath, "mcp", "remove", name, "-s", "user")
		r.Run(r.ClaudePath, "mcp", "remove", name, "-s", "local")
	}

	cmdArgs := append([]string{"mcp", "add", "--scope", "user", name, "--", binary}, args...)
	if out, err := r.Run(r.ClaudePath, cmdArgs...); err != nil {
		return false, fmt.Errorf("claude mcp add failed: %w: %s", err, out)
	}
	return true, nil
}
