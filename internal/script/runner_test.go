package script

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunScriptReturnsMetrics(t *testing.T) {
	r := NewRunner()

	code := `
func RunScript() (string, string, error) {
	return "{\"resonance\": 0.75, \"mode\": \"test\"}", "/tmp/out.png", nil
}
`
	metrics, artifact, err := r.Run(context.Background(), code)
	require.NoError(t, err)

	assert.Equal(t, 0.75, metrics["resonance"])
	assert.Equal(t, "test", metrics["mode"])
	assert.Equal(t, "/tmp/out.png", artifact)
}

func TestRunScriptWithWhitelistedImport(t *testing.T) {
	r := NewRunner()

	code := `
import "fmt"

func RunScript() (string, string, error) {
	return fmt.Sprintf("{\"n\": %d}", 2+2), "", nil
}
`
	metrics, artifact, err := r.Run(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, float64(4), metrics["n"])
	assert.Empty(t, artifact)
}

func TestForbiddenImportRejected(t *testing.T) {
	r := NewRunner()

	code := `
import "os"

func RunScript() (string, string, error) {
	return "{}", "", nil
}
`
	_, _, err := r.Run(context.Background(), code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden imports")
}

func TestMissingRunScript(t *testing.T) {
	r := NewRunner()

	_, _, err := r.Run(context.Background(), `func Other() {}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RunScript function not found")
}

func TestMalformedPayload(t *testing.T) {
	r := NewRunner()

	code := `
func RunScript() (string, string, error) {
	return "not-json", "", nil
}
`
	_, _, err := r.Run(context.Background(), code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a JSON object")
}

func TestEmptyScript(t *testing.T) {
	r := NewRunner()
	_, _, err := r.Run(context.Background(), "   ")
	assert.Error(t, err)
}

func TestContextTimeout(t *testing.T) {
	r := NewRunner()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	code := `
import "time"

func RunScript() (string, string, error) {
	time.Sleep(5 * time.Second)
	return "{}", "", nil
}
`
	_, _, err := r.Run(ctx, code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
