package model

import "github.com/m-mizutani/goerr/v2"

// Error kinds surfaced by the consultation flow. Every error returned from the
// orchestrator carries exactly one of these tags.
var (
	// TagNotFound marks an unknown session id.
	TagNotFound = goerr.NewTag("not_found")
	// TagState marks an operation that is invalid for the current session state.
	TagState = goerr.NewTag("invalid_state")
	// TagUpstream marks a classifier, extractor or generator failure.
	TagUpstream = goerr.NewTag("upstream")
	// TagConflict marks a session id collision.
	TagConflict = goerr.NewTag("conflict")
	// TagInvalidArgument marks malformed caller input.
	TagInvalidArgument = goerr.NewTag("invalid_argument")
)

func IsNotFound(err error) bool        { return goerr.HasTag(err, TagNotFound) }
func IsState(err error) bool           { return goerr.HasTag(err, TagState) }
func IsUpstream(err error) bool        { return goerr.HasTag(err, TagUpstream) }
func IsConflict(err error) bool        { return goerr.HasTag(err, TagConflict) }
func IsInvalidArgument(err error) bool { return goerr.HasTag(err, TagInvalidArgument) }
