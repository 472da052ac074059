package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrIndexOutOfRange  = fmt.Errorf("index out of range")
	ErrMalformedInput   = fmt.Errorf("appending input that is neither a system notice nor a chat event")
	ErrInvalidRules     = fmt.Errorf("invalid filter rules")
	ErrInvalidReplayRow = fmt.Errorf("invalid replay row")
)
