package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// StandardJSONRenderer writes data as indented JSON.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data as YAML.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// outputResult renders data in the format selected by --output.
func outputResult[T any](data T, renderTable func(T) error) error {
	output := viper.GetString("output")
	switch output {
	case constants.FormatJSON:
		return StandardJSONRenderer(data)
	case constants.FormatYAML:
		return StandardYAMLRenderer(data)
	case constants.FormatTable, "":
		return renderTable(data)
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutput, output)
	}
}

func isValidOutput(output string) bool {
	switch output {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return true
	default:
		return false
	}
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

func valueOrNA(value string) string {
	return valueOr(value, constants.NotAvailable)
}

func stringPtrOrNA(value *string) string {
	if value == nil {
		return constants.NotAvailable
	}

	return valueOrNA(*value)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return constants.NotAvailable
	}

	return t.Local().Format(constants.TimeFormat)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return constants.NotAvailable
	}

	return formatTime(*t)
}

func formatBool(value bool) string {
	if value {
		return constants.BooleanTrue
	}

	return constants.BooleanFalse
}

func refID(ref *dato.Ref) string {
	if ref == nil {
		return constants.NotAvailable
	}

	return ref.ID
}

// parseFieldFlags turns repeated key=value flags into a field map. Values that
// parse as JSON (numbers, booleans, objects, quoted strings) keep their type,
// anything else is taken as a plain string.
func parseFieldFlags(flags []string) (map[string]interface{}, error) {
	fields := make(map[string]interface{}, len(flags))

	for _, flag := range flags {
		key, raw, ok := strings.Cut(flag, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidFieldFlag, flag)
		}

		var value interface{}

		err := json.Unmarshal([]byte(raw), &value)
		if err != nil {
			value = raw
		}

		fields[key] = value
	}

	return fields, nil
}

// collectFields merges a --json object with --field flags; flags win.
func collectFields(jsonFields string, fieldFlags []string) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	if jsonFields != "" {
		err := json.Unmarshal([]byte(jsonFields), &fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", constants.ErrInvalidAttributes, err)
		}
	}

	flagFields, err := parseFieldFlags(fieldFlags)
	if err != nil {
		return nil, err
	}

	for key, value := range flagFields {
		fields[key] = value
	}

	if len(fields) == 0 {
		return nil, constants.ErrNoFieldsGiven
	}

	return fields, nil
}

func requireConfirmation(confirmed bool) error {
	if !confirmed {
		return constants.ErrConfirmationNeeded
	}

	return nil
}

func printListFooter(shown, total int, all bool) {
	if !all && total > shown {
		_, _ = fmt.Fprintf(os.Stdout, "\nShowing %d of %d. Use --all to fetch everything.\n", shown, total)
	}
}
