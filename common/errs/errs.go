package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// InternalError is returned when an unexpected condition is met inside the indexer.
	InternalError = ErrorKind("Internal Error")

	// SomethingWentWrong is a generic failure for states that should be unreachable.
	SomethingWentWrong = ErrorKind("Something Went Wrong")

	// InvalidArgument is returned when a caller supplies a value that cannot be used.
	InvalidArgument = ErrorKind("Invalid Argument")

	// Malformed is returned when on-chain data (event logs, payloads, composite ids) cannot be decoded.
	Malformed = ErrorKind("Malformed")

	// Unsupported is returned when an input is valid but not handled by this build.
	Unsupported = ErrorKind("Unsupported")

	// Timeout is returned when an operation gives up waiting.
	Timeout = ErrorKind("Timeout")

	// Closed is returned when using a resource that has been shut down.
	Closed = ErrorKind("Closed")

	// ConflictSetting is returned when persisted state disagrees with the current configuration.
	ConflictSetting = ErrorKind("Conflict Setting")

	OverflowUint128 = ErrorKind("overflow uint128")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
