package entity

// LoadState drives what the presentation layer renders. Empty is a valid
// terminal state distinct from Failed.
type LoadState int

const (
	LoadStateLoading LoadState = iota
	LoadStateLoaded
	LoadStateEmpty
	LoadStateFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadStateLoading:
		return "loading"
	case LoadStateLoaded:
		return "loaded"
	case LoadStateEmpty:
		return "empty"
	case LoadStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
