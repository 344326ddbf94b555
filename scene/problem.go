package scene

import "fmt"

// Severity classifies a validation problem.
type Severity int

const (
	// SeverityWarning problems are advisory: loading proceeds with the
	// affected object defaulted or dropped.
	SeverityWarning Severity = iota
	// SeverityFatal problems abort the scene load; already-active content
	// is untouched.
	SeverityFatal
)

func (s Severity) String() string {
	if s == SeverityFatal {
		return "fatal"
	}
	return "warning"
}

// Problem is a single validation finding with enough context to locate the
// offending field in the source file.
type Problem struct {
	Severity Severity
	Source   string // file or logical source identifier
	ObjectID string // empty for scene-level problems
	Field    string
	Msg      string
}

func (p Problem) Error() string {
	loc := p.Source
	if p.ObjectID != "" {
		loc += "/" + p.ObjectID
	}
	if p.Field != "" {
		loc += "." + p.Field
	}
	return fmt.Sprintf("%s: %s: %s", p.Severity, loc, p.Msg)
}

// Fatals filters the fatal problems.
func Fatals(ps []Problem) []Problem {
	var out []Problem
	for _, p := range ps {
		if p.Severity == SeverityFatal {
			out = append(out, p)
		}
	}
	return out
}

// Warnings filters the warning problems.
func Warnings(ps []Problem) []Problem {
	var out []Problem
	for _, p := range ps {
		if p.Severity == SeverityWarning {
			out = append(out, p)
		}
	}
	return out
}
