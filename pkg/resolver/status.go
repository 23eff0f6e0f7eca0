package resolver

import "fmt"

// Diagnostic codes produced during a resolve pass.
const (
	CodeFragmentMissingAttr   = "parse.fragmentMissingAttr"
	CodeFragmentMissingIDName = "parse.fragmentMissingIdName"
	CodeMissingFragmentPd     = "parse.missingFragmentPd"
	CodePluginMissingAttr     = "parse.pluginMissingAttr"
	CodePluginMissingIDName   = "parse.pluginMissingIdName"
	CodePrereqDisabled        = "parse.prereqDisabled"
	CodePrereqLoop            = "parse.prereqLoop"
	CodeUnsatisfiedPrereq     = "parse.unsatisfiedPrereq"
	CodeExtPointUnknown       = "parse.extPointUnknown"
	CodeExtPointDisabled      = "parse.extPointDisabled"
	CodeUnableToResolve       = "plugin.unableToResolve"
)

// Severity classifies a diagnostic. The resolver only emits warnings; every
// fault is recoverable.
type Severity string

// SeverityWarning is the severity of all resolver diagnostics.
const SeverityWarning Severity = "warning"

// Diagnostic is a single fault recorded during resolution.
type Diagnostic struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
}

// Status accumulates the diagnostics of one resolve pass. It is append-only
// and returned to the caller by the resolver.
type Status struct {
	diags []Diagnostic
}

// OK reports whether the pass produced no diagnostics.
func (s *Status) OK() bool {
	return len(s.diags) == 0
}

// Diagnostics returns the recorded diagnostics in production order.
func (s *Status) Diagnostics() []Diagnostic {
	return s.diags
}

func (s *Status) add(code, format string, args ...any) {
	s.diags = append(s.diags, Diagnostic{
		Code:     code,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
	})
}
