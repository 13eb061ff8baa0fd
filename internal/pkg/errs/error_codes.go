/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001
)

// 2xxx: Presence and Content Business Logic Errors
const (
	// ErrIdentityRequired indicates that a join request is missing a username or room name.
	ErrIdentityRequired = 2001

	// ErrUsernameTaken indicates that the requested username is already held by
	// another live user in the same room.
	ErrUsernameTaken = 2002

	// ErrAlreadyJoined indicates that the connection already has a registered
	// user and attempted to join again.
	ErrAlreadyJoined = 2003

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2101

	// ErrProfaneContent indicates that the message content was flagged by the content filter.
	ErrProfaneContent = 2102
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
