//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/fivetwenty-io/dato-client/pkg/datocms"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	APIToken    string
	Environment string
	BaseURL     string
	DatoPath    string
	RedisAddr   string
	NATSURL     string
	// SlowTests enables environment forks, which copy the whole project.
	SlowTests bool
	Verbose   bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIToken:    os.Getenv("DATOCMS_API_TOKEN"),
		Environment: os.Getenv("DATOCMS_ENVIRONMENT"),
		BaseURL:     os.Getenv("DATOCMS_BASE_URL"),
		DatoPath:    getDatoPath(),
		RedisAddr:   os.Getenv("DATO_TEST_REDIS_ADDR"),
		NATSURL:     os.Getenv("DATO_TEST_NATS_URL"),
		SlowTests:   os.Getenv("DATO_TEST_SLOW") == "true",
		Verbose:     os.Getenv("DATO_VERBOSE") == "true",
	}
}

// getDatoPath determines the path to the dato binary.
func getDatoPath() string {
	if path := os.Getenv("DATO_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../dato",
		"./dato",
		"../dato",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "dato"
}

// SkipIfMissingConfig skips the test when no API token is configured.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.APIToken == "" {
		t.Skip("DATOCMS_API_TOKEN not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips the test when the dato binary cannot be found.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.DatoPath); err != nil {
		t.Skipf("dato binary not found at %s, skipping integration test", config.DatoPath)
	}
}

// ClientConfig returns the library configuration for the test project.
func (config *TestConfig) ClientConfig() *dato.Config {
	return &dato.Config{
		APIToken:    config.APIToken,
		Environment: config.Environment,
		BaseURL:     config.BaseURL,
		UserAgent:   "dato-client-integration-tests",
	}
}

// NewTestClient creates a client for the test project.
func NewTestClient(t *testing.T, config *dato.Config) dato.Client {
	t.Helper()

	client, err := datocms.New(context.Background(), config)
	require.NoError(t, err)

	return client
}

// TestContext returns a context that is cancelled when the test ends.
func TestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// CommandRunner provides utilities for running dato commands.
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a dato command and returns its output. The token is passed
// through the environment so that no config file is needed.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.DatoPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+runner.t.TempDir(),
		"DATO_TOKEN="+runner.config.APIToken,
		"DATO_ENVIRONMENT="+runner.config.Environment,
	)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.DatoPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// GenerateTestName creates a unique test resource name.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// TempModel creates a model with a single "title" string field and removes
// it, with all its records, when the test ends.
func TempModel(t *testing.T, client dato.Client) *dato.ItemType {
	t.Helper()

	ctx := TestContext(t, time.Minute)
	apiKey := GenerateTestName("it_model")

	model, err := client.ItemTypes().Create(ctx, &dato.ItemTypeCreateRequest{
		Name:   "Integration " + apiKey,
		APIKey: apiKey,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_, err := client.ItemTypes().Destroy(context.Background(), model.ID)
		if err != nil {
			t.Logf("Cleanup warning for model %s: %v", model.ID, err)
		}
	})

	_, err = client.Fields().Create(ctx, model.ID, &dato.FieldCreateRequest{
		Label:     "Title",
		APIKey:    "title",
		FieldType: "string",
	})
	require.NoError(t, err)

	return model
}

// WaitForCondition waits for a condition to be met with timeout.
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	t.Helper()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}

// AssertJSONOutput verifies command output is valid JSON.
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	if !json.Valid([]byte(strings.TrimSpace(output))) {
		t.Errorf("Output is not valid JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML.
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	var decoded interface{}

	err := yaml.Unmarshal([]byte(output), &decoded)
	if err != nil || decoded == nil {
		t.Errorf("Output is not valid YAML: %s", output)
	}
}
