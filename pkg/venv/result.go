package venv

import "encoding/json"

// ProbeError describes a failed probe invocation: the child process exited
// non-zero, could not be started, or timed out.
type ProbeError struct {
	// ExitCode is the child's exit code, or -1 when the process could
	// not be started or was killed (including timeouts).
	ExitCode int `json:"exit_code"`

	// Message is the trimmed stderr text, or a description of the
	// spawn failure.
	Message string `json:"error"`

	// Timeout distinguishes probes killed by the per-invocation
	// deadline from ordinary failures.
	Timeout bool `json:"timeout,omitempty"`
}

// StringField holds either a probed string value or the error that
// prevented it from being collected. Exactly one of the two is meaningful.
type StringField struct {
	Value string
	Err   *ProbeError
}

// OK reports whether the field holds a successfully probed value.
func (f StringField) OK() bool { return f.Err == nil }

// ListField holds either a probed list of lines or the error that
// prevented it from being collected.
type ListField struct {
	Values []string
	Err    *ProbeError
}

// OK reports whether the field holds successfully probed values.
func (f ListField) OK() bool { return f.Err == nil }

// FreezeList builds a successful ListField. A nil slice is normalized to
// empty, so a result built from it survives a serialize-and-parse round
// trip unchanged.
func FreezeList(values []string) ListField {
	if values == nil {
		values = []string{}
	}
	return ListField{Values: values}
}

// ProbeResult is the outcome of probing one virtual environment. The three
// fields are independent: any subset may have failed. A ProbeResult is
// created once per environment and never mutated.
type ProbeResult struct {
	PythonVersion StringField
	PipVersion    StringField
	PipFreeze     ListField
}

// probeResultJSON is the wire shape of a ProbeResult. Each field appears
// under its plain name on success or under "<name>_error" on failure,
// matching the report schema consumed by downstream tooling.
type probeResultJSON struct {
	PythonVersion      *string     `json:"python_version,omitempty"`
	PythonVersionError *ProbeError `json:"python_version_error,omitempty"`
	PipVersion         *string     `json:"pip_version,omitempty"`
	PipVersionError    *ProbeError `json:"pip_version_error,omitempty"`
	PipFreeze          *[]string   `json:"pip_freeze,omitempty"`
	PipFreezeError     *ProbeError `json:"pip_freeze_error,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r ProbeResult) MarshalJSON() ([]byte, error) {
	var out probeResultJSON

	if r.PythonVersion.Err != nil {
		out.PythonVersionError = r.PythonVersion.Err
	} else {
		v := r.PythonVersion.Value
		out.PythonVersion = &v
	}

	if r.PipVersion.Err != nil {
		out.PipVersionError = r.PipVersion.Err
	} else {
		v := r.PipVersion.Value
		out.PipVersion = &v
	}

	if r.PipFreeze.Err != nil {
		out.PipFreezeError = r.PipFreeze.Err
	} else {
		values := r.PipFreeze.Values
		if values == nil {
			values = []string{}
		}
		out.PipFreeze = &values
	}

	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. It is the inverse of
// MarshalJSON: a report serialized and parsed back compares equal.
func (r *ProbeResult) UnmarshalJSON(data []byte) error {
	var in probeResultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*r = ProbeResult{}

	if in.PythonVersionError != nil {
		r.PythonVersion.Err = in.PythonVersionError
	} else if in.PythonVersion != nil {
		r.PythonVersion.Value = *in.PythonVersion
	}

	if in.PipVersionError != nil {
		r.PipVersion.Err = in.PipVersionError
	} else if in.PipVersion != nil {
		r.PipVersion.Value = *in.PipVersion
	}

	if in.PipFreezeError != nil {
		r.PipFreeze.Err = in.PipFreezeError
	} else if in.PipFreeze != nil {
		r.PipFreeze = FreezeList(*in.PipFreeze)
	}

	return nil
}
