package tools

// ToolParallelPolicy classifies how safe a tool is to run concurrently with
// other tool calls in the same assistant turn (SPEC_FULL §4.2).
type ToolParallelPolicy string

const (
	// ToolParallelSerialOnly is the default: the tool must not run
	// concurrently with any other tool call in the same batch.
	ToolParallelSerialOnly ToolParallelPolicy = "serial_only"
	// ToolParallelReadOnly marks a tool whose effects are read-only and safe
	// to run alongside other read-only tools.
	ToolParallelReadOnly ToolParallelPolicy = "parallel_read_only"
)

// Executor parallel modes, configured via ToolCallParallelConfig.Mode.
const (
	ParallelToolsModeAll          = "all"
	ParallelToolsModeReadOnlyOnly = "read_only_only"
)

// ParallelPolicyProvider is implemented by tools that opt out of the
// conservative ToolParallelSerialOnly default.
type ParallelPolicyProvider interface {
	ParallelPolicy() ToolParallelPolicy
}

// ConcurrentSafeTool is implemented by tools that explicitly guarantee a
// single shared instance may be invoked from multiple goroutines at once.
type ConcurrentSafeTool interface {
	SupportsConcurrentExecution() bool
}
