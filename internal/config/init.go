package config

import (
	"fmt"
	"os"

	relerrors "git.home.luguber.info/inful/buildreloc/internal/errors"
)

const exampleConfig = `# buildreloc configuration
root:
  # Root Gradle project directory, relative to this file.
  dir: android
  # default_output: build

output:
  # Resolved against <root.dir>/<root.default_output>.
  offset: ../../build

# Leave empty to read include(...) declarations from the settings file.
subprojects: []
# settings_file: settings.gradle.kts

clean:
  task_name: clean
  # Cron expression for periodic cleanup in watch mode.
  # schedule: "0 3 * * *"

history:
  path: .buildreloc/history.db

notify:
  # nats_url: ${NATS_URL}
  subject: buildreloc.events
  retry:
    backoff: linear
    initial: 1s
    max: 30s

metrics:
  # file: /var/lib/node_exporter/textfile/buildreloc.prom
  # listen: 127.0.0.1:9464

logging:
  level: info
  format: text
`

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return relerrors.New(relerrors.CategoryConfig, relerrors.SeverityFatal,
			fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath))
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
