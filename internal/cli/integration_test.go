package cli_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../main.go"}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestCLI_FileToText tests loading a file and printing the text tree
func TestCLI_FileToText(t *testing.T) {
	tempDir := t.TempDir()
	jsonFile := filepath.Join(tempDir, "test.json")
	err := os.WriteFile(jsonFile, []byte(`{"name": "Smak", "open": true, "tables": [{"seats": 4}]}`), 0644)
	require.NoError(t, err)

	stdout, stderr, err := runCLI(t, "show", "-i", jsonFile, "--color", "never")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	assert.Contains(t, stdout, "JSON document\n")
	assert.Contains(t, stdout, "Fetching data from: "+jsonFile+"\n")
	assert.Contains(t, stdout, "  name: Smak\n")
	assert.Contains(t, stdout, "  open: true\n")
	assert.Contains(t, stdout, "  tables:\n    - seats: 4\n")
}

// TestCLI_DefaultCommandIsShow tests that show runs without naming it
func TestCLI_DefaultCommandIsShow(t *testing.T) {
	jsonFile := filepath.Join(t.TempDir(), "test.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`[1, 2]`), 0644))

	stdout, stderr, err := runCLI(t, "-i", jsonFile, "--format", "json")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, "[\n  1,\n  2\n]\n", stdout)
}

// TestCLI_URLSource tests loading over HTTP with the booking layout
func TestCLI_URLSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bokning.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, `{"restaurant": {"name": "Smak"}, "tables": [{"tableId": "T1", "seats": 2, "area": "Bar"}]}`)
	}))
	defer srv.Close()

	stdout, stderr, err := runCLI(t, "-u", srv.URL, "-l", "booking", "--color", "never")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	assert.Contains(t, stdout, "Booking overview\n")
	assert.Contains(t, stdout, "Number of tables: 1\n")
	assert.Contains(t, stdout, "T1  2 seats • Bar\n")
}

// TestCLI_ServerError tests that a failed load prints the notice and exits non-zero
func TestCLI_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	stdout, stderr, err := runCLI(t, "-u", srv.URL, "--color", "never")
	assert.Error(t, err, "CLI should fail when the server fails")
	assert.Contains(t, stdout, "Error: HTTP 503 Service Unavailable\n")
	assert.Contains(t, stderr, "Server error:")
}

// TestCLI_InvalidJSON tests the CLI with an invalid JSON file
func TestCLI_InvalidJSON(t *testing.T) {
	jsonFile := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"name": "Invalid JSON, "age": 30}`), 0644))

	stdout, stderr, err := runCLI(t, "-i", jsonFile, "--color", "never")
	assert.Error(t, err, "CLI should fail with invalid JSON")
	assert.Contains(t, stdout, "Error: ")
	assert.Contains(t, stderr, "JSON parsing error")
}

// TestCLI_NoSource tests the CLI without a source
func TestCLI_NoSource(t *testing.T) {
	_, stderr, err := runCLI(t)
	assert.Error(t, err, "CLI should fail without a source")
	assert.Contains(t, stderr, "Configuration error: no source configured")
}

// TestCLI_ConfigFile tests that a config file supplies the source
func TestCLI_ConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	jsonFile := filepath.Join(tempDir, "doc.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"isAccessible": false}`), 0644))
	configFile := filepath.Join(tempDir, "jsonview.yml")
	configContent := fmt.Sprintf("source:\n  file: %q\nlabels:\n  humanize: true\noutput:\n  color: never\n", jsonFile)
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0644))

	stdout, stderr, err := runCLI(t, "-c", configFile)
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Contains(t, stdout, "  is accessible: false\n")
}

// TestCLI_Version tests the version flag
func TestCLI_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "-v")
	require.NoError(t, err)
	assert.Contains(t, stdout, "jsonview version")
}

// TestCLI_Help tests the help output
func TestCLI_Help(t *testing.T) {
	stdout, _, err := runCLI(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "-u, --url")
	assert.Contains(t, stdout, "-i, --file")
	assert.Contains(t, stdout, "-l, --layout")
	assert.Contains(t, stdout, "show")
	assert.Contains(t, stdout, "serve")
}
