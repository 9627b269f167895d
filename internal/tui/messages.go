package tui

import "github.com/bcfl/predict/internal/remote"

// submitDoneMsg carries the result of a submit request.
type submitDoneMsg struct {
	resp *remote.Response
	err  error
}

// prefillDoneMsg carries the result of a prefill request.
type prefillDoneMsg struct {
	token string
	resp  *remote.Response
	err   error
}

// entryEditedMsg is sent when the external editor returns.
type entryEditedMsg struct {
	path string
	data []byte
	err  error
}
