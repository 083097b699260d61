package capture

// Guard is returned by capture_shm; releasing it (Close) signals the
// compositor the frame's fd may be reused.
type Guard interface {
	Close() error
}

// BO is one GPU buffer-object plane of a DMA-BUF allocation.
type BO struct {
	FD     int
	Offset uint32
	Stride uint32
}

// AllocUnit is the result of capture_dmabuf: one or more plane handles.
type AllocUnit struct {
	PlaneCount int
	BO         []BO
}

// FrameCapturer is the abstract compositor-side capture capability
// (§6.3). The core consumes it; it is not implemented by this package
// for any specific compositor — a wlr-screencopy-backed implementation
// lives outside the core per the spec's Non-goals ("the compositor-side
// capture library" is an external collaborator).
type FrameCapturer interface {
	ListOutputs() ([]OutputInfo, error)
	ListToplevels() ([]ToplevelInfo, error)

	// Probe learns target geometry and, optionally, supported formats.
	Probe(target Target) (Size, []PixelFormat, error)
	SupportedFormats(target Target) ([]PixelFormat, error)

	// SupportsGBM reports whether DMA-BUF allocation is available.
	SupportsGBM() bool

	// CaptureSHM fills fd with one frame in the given format and region.
	CaptureSHM(target Target, fd int, format PixelFormat, region *Region, overlayCursor bool) (Guard, error)

	// CaptureDMABUF allocates a DMA-BUF-backed frame, called once from the
	// Add-buffer callback to obtain the plane handles that back a buffer
	// for its whole lifetime.
	CaptureDMABUF(target Target, region *Region, overlayCursor bool) (AllocUnit, error)

	// FillDMABUF re-renders one frame into the plane handles a prior
	// CaptureDMABUF returned, called from the Process callback on every
	// tick — the DMA-BUF counterpart of CaptureSHM's per-tick fd fill.
	FillDMABUF(target Target, planes []BO, region *Region, overlayCursor bool) (Guard, error)
}

// Region is an optional sub-region of a target (§4.C).
type Region struct {
	X, Y, Width, Height int32
}
