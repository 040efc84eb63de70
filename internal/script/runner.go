// Package script executes operator-supplied scripts in a sandboxed yaegi
// interpreter. Interpreted Go replaces the embedded interpreter of earlier
// deployments: no compilation step, no external runtime, and a stdlib-only
// import whitelist.
//
// A script must define, in package main:
//
//	func RunScript() (string, string, error)
//
// returning a metrics JSON object and an optional artifact path.
package script

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Runner interprets scripts with a restricted stdlib surface.
type Runner struct {
	allowedPackages map[string]bool
}

// NewRunner creates a runner with the default whitelist. Filesystem, network,
// exec, and unsafe packages stay blocked.
func NewRunner() *Runner {
	return &Runner{
		allowedPackages: map[string]bool{
			"strings":         true,
			"strconv":         true,
			"fmt":             true,
			"math":            true,
			"math/cmplx":      true,
			"regexp":          true,
			"encoding/json":   true,
			"encoding/base64": true,
			"time":            true,
			"sort":            true,
			"bytes":           true,
		},
	}
}

// Run interprets the script and decodes its metrics payload. The context
// bounds execution; a script that outlives it is abandoned and reported as
// an error.
func (r *Runner) Run(ctx context.Context, code string) (map[string]any, string, error) {
	if strings.TrimSpace(code) == "" {
		return nil, "", fmt.Errorf("empty script")
	}
	if err := r.validateImports(code); err != nil {
		return nil, "", fmt.Errorf("invalid imports: %w", err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, "", fmt.Errorf("failed to load stdlib: %w", err)
	}

	if _, err := i.Eval(wrapCode(code)); err != nil {
		return nil, "", fmt.Errorf("script evaluation failed: %w", err)
	}

	v, err := i.Eval("main.RunScript")
	if err != nil {
		return nil, "", fmt.Errorf("RunScript function not found: %w", err)
	}
	run, ok := v.Interface().(func() (string, string, error))
	if !ok {
		return nil, "", fmt.Errorf("RunScript has incorrect signature (expected: func() (string, string, error))")
	}

	type outcome struct {
		payload  string
		artifact string
		err      error
	}
	resultCh := make(chan outcome, 1)
	go func() {
		payload, artifact, err := run()
		resultCh <- outcome{payload, artifact, err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return nil, "", res.err
		}
		metrics, err := decodePayload(res.payload)
		if err != nil {
			return nil, "", err
		}
		return metrics, res.artifact, nil
	case <-ctx.Done():
		return nil, "", fmt.Errorf("script execution timed out: %w", ctx.Err())
	}
}

func decodePayload(payload string) (map[string]any, error) {
	if strings.TrimSpace(payload) == "" {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return nil, fmt.Errorf("script metrics payload is not a JSON object: %w", err)
	}
	return out, nil
}

// validateImports rejects scripts importing anything outside the whitelist.
func (r *Runner) validateImports(code string) error {
	var imports []string

	inBlock := false
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
		case inBlock && strings.HasPrefix(trimmed, ")"):
			inBlock = false
		case inBlock && trimmed != "":
			imports = append(imports, strings.Trim(trimmed, `"`))
		case strings.HasPrefix(trimmed, "import "):
			imports = append(imports, strings.Trim(strings.TrimPrefix(trimmed, "import "), `"`))
		}
	}

	var forbidden []string
	for _, pkg := range imports {
		if !r.allowedPackages[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %v", forbidden)
	}
	return nil
}

func wrapCode(code string) string {
	if strings.Contains(code, "package main") {
		return code
	}
	return "package main\n\n" + code
}
