package policyfile

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/reglet-dev/sst/internal/domain/values"
)

// Conditions describes the host that "when" expressions are evaluated
// against.
type Conditions struct {
	Env    map[string]string
	OS     string
	Arch   string
	Kernel values.KernelRelease
}

// HostConditions describes the running host.
func HostConditions(kernel values.KernelRelease) Conditions {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return Conditions{
		OS:     runtime.GOOS,
		Arch:   runtime.GOARCH,
		Kernel: kernel,
		Env:    env,
	}
}

func (c Conditions) exprEnv() map[string]interface{} {
	return map[string]interface{}{
		"os":           c.OS,
		"arch":         c.Arch,
		"kernel":       c.Kernel.String(),
		"kernel_major": int(c.Kernel.Major()),
		"kernel_minor": int(c.Kernel.Minor()),
		"env":          c.Env,
	}
}

func (c Conditions) exprOptions(env map[string]interface{}) []expr.Option {
	return []expr.Option{
		expr.Env(env),
		expr.AsBool(),
		expr.Function("kernel_at_least",
			func(params ...any) (any, error) {
				ok, err := c.Kernel.Satisfies(">= " + params[0].(string))
				if err != nil {
					return nil, err
				}
				return ok, nil
			},
			new(func(string) bool),
		),
	}
}

// Eval reports whether a "when" expression holds. An empty expression
// always holds.
func (c Conditions) Eval(condition string) (bool, error) {
	if strings.TrimSpace(condition) == "" {
		return true, nil
	}

	env := c.exprEnv()
	program, err := expr.Compile(condition, c.exprOptions(env)...)
	if err != nil {
		return false, fmt.Errorf("invalid condition %q: %w", condition, err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("condition %q failed: %w", condition, err)
	}

	ok, isBool := result.(bool)
	if !isBool {
		return false, fmt.Errorf("condition %q is not boolean", condition)
	}
	return ok, nil
}
