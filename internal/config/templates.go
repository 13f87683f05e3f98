package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Vanguard Fund Notifier Configuration

[renderer]
# Page renderer: "chrome" (headless browser) or "http" (plain GET, no JavaScript)
engine = "chrome"
headless = true
# Maximum wait for the page content to load
wait_timeout = "30s"
# Extra wait after the content is detected
settle_delay = "3s"
# Extra wait after the tab panel appears
panel_settle_delay = "2s"
# Page size (characters) treated as "content loaded"
min_content_length = 10000
# Optional element to wait for; absence is not an error
panel_selector = '[role="tabpanel"]'

[run]
# YAML file with a top-level "funds" list of {name, url}
funds_file = "funds_config.yml"
# Pause between funds
pacing = "3s"

[notifications]
# Notification level: all, updates_only, errors_only
level = "all"

[notifications.ntfy]
enabled = true
url = "http://192.168.0.2:6244/vanguard_not"
priority = "default"
tags = "chart_with_upwards_trend,heavy_dollar_sign"
error_priority = "high"
error_tags = "rotating_light,exclamation"
timeout = "10s"

[notifications.webhook]
# Slack-compatible webhook receiving the multi-line message
enabled = false
url = ""
timeout = "10s"

[notifications.terminal]
# Echo notifications to the console (verbose prints the multi-line message)
enabled = false
bell = false
verbose = false

[logging]
level = "info"
console = true
file = true
`

const fundsTemplate = `# Funds to watch, processed in order.
funds:
  - name: "Example Fund"
    url: "https://example.com/fund/prices"
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}

// WriteFundsTemplate writes an example funds file at path unless one exists.
func WriteFundsTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("creating funds directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(fundsTemplate), 0644); err != nil {
		return false, fmt.Errorf("writing funds template: %w", err)
	}
	return true, nil
}
