package collections

// Kind classifies the outcome of a mutation attempt.
type Kind int

const (
	// Applied means the server confirmed the mutation and local state now reflects it.
	Applied Kind = iota
	// Rejected means the mutation failed (locally or remotely) and local
	// state is exactly its pre-mutation value.
	Rejected
	// Reverted means the resolution was discarded as stale: a newer mutation
	// for the same key resolved first, or the session changed mid-flight.
	Reverted
)

// String implements [fmt.Stringer] for log output.
func (k Kind) String() string {
	switch k {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	case Reverted:
		return "reverted"
	default:
		return "unknown"
	}
}

// Result is the outcome of one mutation attempt against a synced collection.
type Result[T any] struct {
	Kind   Kind
	Item   T     // populated when Kind is Applied
	Reason error // populated when Kind is Rejected or Reverted
}

// applied constructs an Applied result carrying the confirmed item.
func applied[T any](item T) Result[T] {
	return Result[T]{Kind: Applied, Item: item}
}

// rejected constructs a Rejected result carrying the failure reason.
func rejected[T any](reason error) Result[T] {
	return Result[T]{Kind: Rejected, Reason: reason}
}

// reverted constructs a Reverted result for a discarded stale resolution.
func reverted[T any](reason error) Result[T] {
	return Result[T]{Kind: Reverted, Reason: reason}
}

// EpochSource reports the current session generation. Mutations snapshot the
// epoch at issue time and discard their resolution when it has moved.
// [session.Store] satisfies this interface.
type EpochSource interface {
	Epoch() uint64
}

// fixedEpoch is the zero EpochSource used when none is provided.
type fixedEpoch struct{}

func (fixedEpoch) Epoch() uint64 { return 0 }
