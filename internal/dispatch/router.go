package dispatch

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Rule maps a label glob pattern to a target string as found in config.
// Target uses ParseTarget semantics: "ui" is the main context, anything
// else names a queue.
type Rule struct {
	Pattern string
	Target  string
}

// compiledRule is a Rule with its glob compiled.
type compiledRule struct {
	pattern string
	glob    glob.Glob
	target  Target
}

// Router resolves an operation label to a delivery Target using an
// ordered list of glob rules. The first matching rule wins; labels with
// no matching rule resolve to the fallback target.
type Router struct {
	rules    []compiledRule
	fallback Target
}

// NewRouter compiles the given rules in order. Returns an error naming
// the offending pattern if any glob fails to compile. The fallback for
// unmatched labels is Main().
func NewRouter(rules []Rule) (*Router, error) {
	r := &Router{fallback: Main()}
	for _, rule := range rules {
		g, err := glob.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid route pattern %q: %w", rule.Pattern, err)
		}
		r.rules = append(r.rules, compiledRule{
			pattern: rule.Pattern,
			glob:    g,
			target:  ParseTarget(rule.Target),
		})
	}
	return r, nil
}

// SetFallback overrides the target used for unmatched labels.
func (r *Router) SetFallback(t Target) {
	r.fallback = t
}

// Resolve returns the Target for the given label.
func (r *Router) Resolve(label string) Target {
	for _, rule := range r.rules {
		if rule.glob.Match(label) {
			return rule.target
		}
	}
	return r.fallback
}

// Rules returns the patterns and resolved targets in match order,
// for display by the routes command.
func (r *Router) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	for i, rule := range r.rules {
		out[i] = Rule{Pattern: rule.pattern, Target: rule.target.String()}
	}
	return out
}
