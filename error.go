package lv2host

import (
	"fmt"
)

// Step is a name of job step.
type Step string

// Job steps in execution order.
const (
	StepLoad  Step = "load"
	StepFind  Step = "find"
	StepInit  Step = "init"
	StepRead  Step = "read"
	StepRun   Step = "run"
	StepWrite Step = "write"
)

// ErrorRun is returned if any of job steps failed.
type ErrorRun struct {
	Step Step
	Err  error
}

func (e *ErrorRun) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the error of failed step.
func (e *ErrorRun) Unwrap() error {
	return e.Err
}

// stepError returns nil if err is nil.
func stepError(s Step, err error) error {
	if err == nil {
		return nil
	}
	return &ErrorRun{Step: s, Err: err}
}
