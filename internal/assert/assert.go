package assert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Assert is a wrapper around assert.Assertions and testing.T
type Assert struct {
	*assert.Assertions
	T *testing.T
}

// New creates a new Assert object
func New(t *testing.T) *Assert {
	return &Assert{
		Assertions: assert.New(t),
		T:          t,
	}
}

// EqualToFixture compares result with the content of a golden file.
// If GEN_FIXTURE=true is set, it writes result to the fixture file and passes the test.
// The fixture path is derived from the test name: testdata/fixtures/<a.T.Name()>_<fixtureName>
// Subtest separators in the name are flattened to underscores.
func (a *Assert) EqualToFixture(fixtureName string, result string) {
	testName := strings.ReplaceAll(a.T.Name(), "/", "_")
	fixtureFileName := fmt.Sprintf("%s_%s", testName, fixtureName)
	fixturePath := filepath.Join("testdata", "fixtures", fixtureFileName)

	if os.Getenv("GEN_FIXTURE") == "true" {
		err := os.MkdirAll(filepath.Dir(fixturePath), 0755)
		a.NoError(err, "Failed to create fixture directory")
		err = os.WriteFile(fixturePath, []byte(result), 0644)
		a.NoError(err, "Failed to write fixture file")
		return // Skip comparison when generating fixtures
	}

	expected, err := os.ReadFile(fixturePath)
	a.NoError(err, "Failed to read fixture file")

	// Trailing newlines in fixture files are editor noise
	a.Equal(strings.TrimRight(string(expected), "\n"), result, "Result does not match fixture")
}

// WriteTree creates files under root from a map of slash-separated relative
// paths to contents.
func (a *Assert) WriteTree(root string, files map[string]string) {
	a.T.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			a.T.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			a.T.Fatalf("Failed to create file: %v", err)
		}
	}
}
