package indexnow

// Outcome classifies what happened to a submission.
type Outcome int

const (
	// OutcomeNotAttempted means nothing was sent: the client is disabled,
	// the input was empty, or no host could be determined.
	OutcomeNotAttempted Outcome = iota

	// OutcomeAccepted means IndexNow answered 200 or 202.
	OutcomeAccepted

	// OutcomeRejected means IndexNow answered with any other status.
	OutcomeRejected

	// OutcomeTransportFailed means the request timed out or failed
	// before a response arrived.
	OutcomeTransportFailed

	// OutcomeInvalidConfig means no API key is configured.
	OutcomeInvalidConfig
)

// String returns the outcome label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeNotAttempted:
		return "not_attempted"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTransportFailed:
		return "transport_failed"
	case OutcomeInvalidConfig:
		return "invalid_config"
	default:
		return "unknown"
	}
}

// Reason explains an OutcomeNotAttempted result.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonDisabled   Reason = "disabled"
	ReasonEmptyInput Reason = "empty_input"
	ReasonInvalidURL Reason = "invalid_url"
	ReasonFiltered   Reason = "filtered"
)

// Result is the outcome of Submit.
type Result struct {
	Outcome Outcome

	// Reason is set when Outcome is OutcomeNotAttempted.
	Reason Reason

	// URLCount is the number of URLs sent in the request.
	URLCount int

	// StatusCode and Body are the IndexNow response, when one arrived.
	StatusCode int
	Body       string

	// Err describes the failure, if any. It is never returned on its own;
	// Submit reports failures only through Result.
	Err error
}

// Bool projects the result onto a three-valued answer: attempted is
// false when nothing was sent (and no configuration error occurred),
// otherwise value reports whether IndexNow accepted the URLs.
func (r Result) Bool() (value bool, attempted bool) {
	if r.Outcome == OutcomeNotAttempted {
		return false, false
	}
	return r.Outcome == OutcomeAccepted, true
}

// Accepted reports whether IndexNow accepted the submission.
func (r Result) Accepted() bool {
	return r.Outcome == OutcomeAccepted
}

// Attempted reports whether the result is true or false rather than none.
func (r Result) Attempted() bool {
	_, attempted := r.Bool()
	return attempted
}

func notAttempted(reason Reason, err error) Result {
	return Result{Outcome: OutcomeNotAttempted, Reason: reason, Err: err}
}
