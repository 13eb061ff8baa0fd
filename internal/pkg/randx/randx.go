/*
Package randx provides generation of unique identifiers.

It is used to mint the opaque connection ids the transport layer assigns to
each live WebSocket connection.
*/
package randx

import "github.com/google/uuid"

// ConnectionID generates a UUID v4 string identifying a single live connection.
// The id is stable for the lifetime of the connection and never reused.
func ConnectionID() string {
	return uuid.New().String()
}
