/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and acknowledgement payloads.
*/
package errs

import "net/http"

// errorMap stores the CustomError template corresponding to every application
// error code. The key is the error code, and the value carries the user-facing
// message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams: {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},

	// 2xxx: Presence and Content Business Logic Errors
	ErrIdentityRequired:      {Code: ErrIdentityRequired, Message: "Username and room are required!"},
	ErrUsernameTaken:         {Code: ErrUsernameTaken, Message: "Username is in use!"},
	ErrAlreadyJoined:         {Code: ErrAlreadyJoined, Message: "Already joined a room."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrProfaneContent:        {Code: ErrProfaneContent, Message: "Profanity is not allowed!"},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
