package container

// Lifetime decides how often a registered service is built.
type Lifetime int

const (
	// Transient services are built again on every resolution.
	Transient Lifetime = iota

	// Scoped services are built once per ResolutionContext.
	Scoped

	// Singleton services are built once per Provider and then reused.
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}
