package capture

// NodeState mirrors the media graph's node activation states (§4.C
// State-change callback).
type NodeState int

const (
	NodeError NodeState = iota
	NodeIdle
	NodePaused
	NodeStreaming
)

// FormatParams is the Choice-over-formats parameter object advertised on
// node creation and on renegotiation (§4.C step 3).
type FormatParams struct {
	Formats []PixelFormat
	Default PixelFormat
	Size    Size
	Layout  BufferLayout
	FPSNum  uint32
	FPSDen  uint32

	MinBuffers     uint32
	MaxBuffers     uint32
	DefaultBuffers uint32
}

// Buffer is one media-graph buffer descriptor. Type is set by the graph
// before Add-buffer runs; data is the worker's own user-data (§4.C:
// "the per-buffer allocation result is stored as user data on the
// buffer").
type Buffer struct {
	ID   uint32
	Type BufferKind
	data *Allocation
}

// NodeCallbacks are registered once at node creation (§4.C step 4).
type NodeCallbacks struct {
	OnStateChange  func(NodeState)
	OnParamChange  func(format PixelFormat, ok bool)
	OnAddBuffer    func(buf *Buffer)
	OnRemoveBuffer func(buf *Buffer)
	OnProcess      func(buf *Buffer)
}

// GraphNode is one producer node on the external media graph (a
// PipeWire-compatible video source).
type GraphNode interface {
	ID() uint32
	UpdateParams(FormatParams) error
	QueueBuffer(buf *Buffer) error
	Deactivate() error
	Close() error
}

// GraphFactory creates producer nodes; stands in for the media-graph
// client connection. The core depends only on this abstraction — no
// concrete PipeWire binding ships in this module, matching the way
// FrameCapturer (§6.3) abstracts the compositor side.
type GraphFactory interface {
	CreateNode(mediaClass string, cb NodeCallbacks) (GraphNode, error)
}
