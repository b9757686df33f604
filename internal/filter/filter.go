// Package filter decides which URLs are eligible for submission using
// expr-lang expressions, e.g.
//
//	host == "example.com" && !(path startsWith "/admin")
package filter

import (
	"fmt"
	"net/url"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled URL eligibility expression. It is safe for
// concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// New compiles expression. The expression sees the variables url,
// scheme, host, path and query, and must evaluate to a boolean.
func New(expression string) (*Filter, error) {
	if expression == "" {
		return nil, fmt.Errorf("filter expression cannot be empty")
	}

	program, err := expr.Compile(expression, expr.Env(env(nil, "")), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	return &Filter{expression: expression, program: program}, nil
}

// String returns the source expression
func (f *Filter) String() string {
	return f.expression
}

// Allow reports whether rawURL passes the filter. URLs that cannot be
// parsed are allowed through untouched; rejecting them is left to the
// caller's own URL handling.
func (f *Filter) Allow(rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true, nil
	}

	result, err := expr.Run(f.program, env(u, rawURL))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter for %s: %w", rawURL, err)
	}

	allowed, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter returned non-boolean: %T", result)
	}

	return allowed, nil
}

func env(u *url.URL, raw string) map[string]interface{} {
	if u == nil {
		u = &url.URL{}
	}
	return map[string]interface{}{
		"url":    raw,
		"scheme": u.Scheme,
		"host":   u.Hostname(),
		"path":   u.Path,
		"query":  u.RawQuery,
	}
}
