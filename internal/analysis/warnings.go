package analysis

import "fmt"

// Stage names the pipeline step a warning originated from.
type Stage string

const (
	// StageLocate covers workspace scanning and round-name parsing.
	StageLocate Stage = "locate"

	// StageLoad covers whole-snapshot load failures.
	StageLoad Stage = "load"

	// StageShape covers individual malformed entries inside a snapshot
	// that loaded otherwise fine.
	StageShape Stage = "shape"
)

// Warning is a recoverable problem encountered during analysis. Warnings
// accumulate and are returned with the result instead of being printed,
// so the pipeline stays a pure function of the workspace contents.
type Warning struct {
	Stage   Stage
	Path    string
	Message string
}

func (w Warning) String() string {
	if w.Path == "" {
		return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Stage, w.Path, w.Message)
}

func warnf(stage Stage, path, format string, args ...interface{}) Warning {
	return Warning{Stage: stage, Path: path, Message: fmt.Sprintf(format, args...)}
}
