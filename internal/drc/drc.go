// Package drc prepares and launches remote design-rule-check runs. The
// configuration is the parameter mapping the DRC dialog collects: server
// URL, port, PDK path, DRC deck and SSH identity.
package drc

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes the remote DRC server and deck.
type Config struct {
	URL      string `yaml:"url" json:"url"`
	Port     int    `yaml:"port" json:"port"`
	PDK      string `yaml:"pdk" json:"pdk"`
	Calibre  string `yaml:"calibre" json:"calibre"`   // DRC deck path on the server
	Identity string `yaml:"identity" json:"identity"` // SSH identity file
}

// Validate checks the connection configuration.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("drc: server url is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("drc: invalid port %d", c.Port)
	}
	if c.PDK == "" {
		return fmt.Errorf("drc: pdk path is required")
	}
	if c.Calibre == "" {
		return fmt.Errorf("drc: calibre deck path is required")
	}
	return nil
}

// Load loads a DRC configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Command renders the remote invocation argv for a layout file: an ssh call
// running the DRC deck against the uploaded layout.
func (c *Config) Command(layoutPath string) []string {
	argv := []string{"ssh", "-p", fmt.Sprintf("%d", c.Port)}
	if c.Identity != "" {
		argv = append(argv, "-i", c.Identity)
	}
	remote := fmt.Sprintf("calibre -drc -hier %s -runset %s -layout %s",
		c.Calibre, c.PDK, layoutPath)
	return append(argv, c.URL, remote)
}

// Runner launches a DRC run; tests substitute a stub transport.
type Runner interface {
	Run(cfg *Config, layoutPath string) (output string, err error)
}

// ExecRunner runs the rendered command through the local ssh client,
// blocking until the remote run finishes.
type ExecRunner struct{}

// Run executes the DRC invocation and returns its combined output.
func (ExecRunner) Run(cfg *Config, layoutPath string) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	argv := cfg.Command(layoutPath)
	cmd := exec.Command(argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("drc run failed: %w", err)
	}
	return string(out), nil
}

// Summarize extracts the violation count from DRC run output. Returns -1 if
// the output has no recognizable summary.
func Summarize(output string) int {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		var n int
		if _, err := fmt.Sscanf(line, "TOTAL DRC Results Generated: %d", &n); err == nil {
			return n
		}
	}
	return -1
}
