package invite

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid negotiation transition")
	ErrNoTopics          = errors.New("at least one topic is required")
	ErrTopicRejected     = errors.New("topic is empty or already listed")
	ErrIncompleteEvent   = errors.New("event is not fully specified")
	ErrInvalidValue      = errors.New("value must be a positive number")
	ErrCannotCopy        = errors.New("recipient name and at least one topic are required")
)
