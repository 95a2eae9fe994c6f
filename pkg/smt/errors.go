package smt

import "fmt"

// SpawnError reports that the solver process could not be created
type SpawnError struct {
	Path string
	Err  error
}

func (err *SpawnError) Error() string {
	return fmt.Sprintf("cannot spawn solver \"%v\": %v", err.Path, err.Err)
}

func (err *SpawnError) Unwrap() error {
	return err.Err
}

// ProtocolError reports a stream that closed or failed while the session was talking to the solver
type ProtocolError struct {
	Op  string // "send" or "receive"
	Err error
}

func (err *ProtocolError) Error() string {
	return fmt.Sprintf("solver protocol failure on %v: %v", err.Op, err.Err)
}

func (err *ProtocolError) Unwrap() error {
	return err.Err
}
