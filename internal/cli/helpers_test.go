package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"lingoquiz/internal/config"
	"lingoquiz/internal/testutil"
)

const testConfig = `version: 1
banks_dir: ../banks
store:
  driver: file
  dsn: ../attempts
levels:
  - {min: 0, label: A1}
  - {min: 50, label: B1}
assessments:
  - id: grammar
    title: Grammar check
    bank: sample
    seed: 4
`

// setupProject writes a config and the sample bank and returns the config path.
func setupProject(t *testing.T) string {
	t.Helper()
	for _, key := range []string{config.EnvStoreDriver, config.EnvStoreDSN, config.EnvLogLevel, config.EnvBanksDir, config.EnvConfig} {
		t.Setenv(key, "")
	}
	root := t.TempDir()
	testutil.WriteFile(t, root, filepath.Join("banks", "sample.yml"), testutil.SampleBank)
	return testutil.WriteFile(t, root, filepath.Join(config.ConfigDirName, config.ConfigFileName), testConfig)
}

// useInput replaces stdin and forces plain mode for one test.
func useInput(t *testing.T, input string) {
	t.Helper()
	origIn, origTTY := stdin, isTerminal
	stdin = strings.NewReader(input)
	isTerminal = func(any) bool { return false }
	t.Cleanup(func() {
		stdin = origIn
		isTerminal = origTTY
	})
}
