package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zudsniper/ytnote/internal/transcribe"
)

// ErrEmptyTranscript means a strategy finished without any usable text.
var ErrEmptyTranscript = errors.New("empty transcript")

// ErrNoVideo is returned by strategies that need a YouTube video ID.
var ErrNoVideo = errors.New("no video id in request")

// ExhaustedError is returned when every strategy failed.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "all transcript strategies failed (%d attempted)", len(e.Attempts))
	for i, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  %d. %s: %v", i+1, a.Source, a.Err)
	}
	return b.String()
}

func (e *ExhaustedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

// MissingCredential returns the credential error when speech recognition
// was skipped for lack of an API key.
func (e *ExhaustedError) MissingCredential() (*transcribe.CredentialError, bool) {
	var ce *transcribe.CredentialError
	if errors.As(e, &ce) {
		return ce, true
	}
	return nil, false
}
