package runstatus

import "fmt"

// DecodeError reports a corrupt or unsupported activity file. It is
// per-file and non-fatal: the pipeline skips the file and keeps going.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NoTimerDataError reports an activity file with no elapsed-time stream.
// Per-file and non-fatal, like DecodeError.
type NoTimerDataError struct {
	Path string
}

func (e *NoTimerDataError) Error() string {
	return fmt.Sprintf("%s: no timer data in activity file", e.Path)
}

// DatasetCorruptError is fatal: the persisted dataset exists but cannot be
// read back. It is surfaced to the operator instead of being masked with an
// empty dataset, which would silently drop history on the next save.
type DatasetCorruptError struct {
	Path string
	Err  error
}

func (e *DatasetCorruptError) Error() string {
	return fmt.Sprintf("dataset %s is corrupt: %v", e.Path, e.Err)
}

func (e *DatasetCorruptError) Unwrap() error { return e.Err }

// MissingRaceDateConfigError is fatal: without a race date there is no
// weeks-to-race and no goal evaluation.
type MissingRaceDateConfigError struct {
	Path string
}

func (e *MissingRaceDateConfigError) Error() string {
	if e.Path == "" {
		return "race date is not configured"
	}
	return fmt.Sprintf("config %s: race date is not configured", e.Path)
}
