package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/logging"
	"golang.org/x/sys/unix"
)

var log = logging.L("capture")

const startTimeout = 5 * time.Second

// Job is the CastJob record (§3): per-session state the worker owns.
// Created on start, destroyed on session close or fatal capture failure.
type Job struct {
	Target        Target
	OverlayCursor bool
	Region        *Region
}

// Worker is the Capture Pipeline (4.C): one per cast session, driving
// the media-graph loop on its own dedicated OS thread (§5). The caller
// is responsible for running Start/Wait on a locked OS thread; this
// package contains only the business logic, not the thread pinning.
type Worker struct {
	job      Job
	capturer FrameCapturer
	graph    GraphFactory

	mu     sync.Mutex
	node   GraphNode
	format PixelFormat
	size   Size

	nodeIDCh  chan uint32
	stateErrCh chan error
	stopCh    chan struct{}
	stopOnce  sync.Once

	paused sync.Once
}

// NewWorker constructs a Capture Pipeline worker for one cast session.
func NewWorker(job Job, capturer FrameCapturer, graph GraphFactory) *Worker {
	return &Worker{
		job:        job,
		capturer:   capturer,
		graph:      graph,
		nodeIDCh:   make(chan uint32, 1),
		stateErrCh: make(chan error, 1),
		stopCh:     make(chan struct{}),
	}
}

// Start runs the startup sequence (§4.C steps 1-4) and blocks until the
// node reaches Paused at least once, returning its id, or until probing
// or negotiation fails.
func (w *Worker) Start() (uint32, error) {
	size, formats, err := w.capturer.Probe(w.job.Target)
	if err != nil {
		return 0, fmt.Errorf("capture: probe target: %w", err)
	}
	w.mu.Lock()
	w.size = size
	w.mu.Unlock()

	node, err := w.graph.CreateNode("Video/Source", NodeCallbacks{
		OnStateChange:  w.onStateChange,
		OnParamChange:  w.onParamChange,
		OnAddBuffer:    w.onAddBuffer,
		OnRemoveBuffer: w.onRemoveBuffer,
		OnProcess:      w.onProcess,
	})
	if err != nil {
		return 0, fmt.Errorf("capture: create producer node: %w", err)
	}
	w.mu.Lock()
	w.node = node
	w.mu.Unlock()

	if err := node.UpdateParams(w.formatParams(formats, size)); err != nil {
		node.Close()
		return 0, fmt.Errorf("capture: advertise format: %w", err)
	}

	select {
	case id := <-w.nodeIDCh:
		return id, nil
	case err := <-w.stateErrCh:
		node.Close()
		return 0, err
	case <-time.After(startTimeout):
		node.Close()
		return 0, fmt.Errorf("capture: timed out waiting for node to reach Paused")
	}
}

func (w *Worker) formatParams(formats []PixelFormat, size Size) FormatParams {
	return FormatParams{
		Formats:        formats,
		Default:        FormatBGRA,
		Size:           size,
		Layout:         NewBufferLayout(size),
		FPSNum:         FramerateNum,
		FPSDen:         FramerateDen,
		MinBuffers:     MinBuffers,
		MaxBuffers:     MaxBuffers,
		DefaultBuffers: DefaultBuffers,
	}
}

// Stop sends the single stop token the worker's loop drains; safe to
// call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// Wait blocks until Stop has been called, then tears down in the
// mandated order: listener (node) before context (graph) before loop
// (the caller's goroutine returning) — §4.C "Stop", §5.
func (w *Worker) Wait() {
	<-w.stopCh
	w.mu.Lock()
	node := w.node
	w.mu.Unlock()
	if node != nil {
		node.Close()
	}
}

// CurrentSize reports the worker's most recently probed/renegotiated
// frame size (§8: "the worker's stored (width, height) reflects the
// latest probe").
func (w *Worker) CurrentSize() Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

func (w *Worker) onStateChange(state NodeState) {
	switch state {
	case NodePaused:
		w.paused.Do(func() {
			w.mu.Lock()
			node := w.node
			w.mu.Unlock()
			if node != nil {
				select {
				case w.nodeIDCh <- node.ID():
				default:
				}
			}
		})
	case NodeError:
		log.Warn("producer node entered error state")
	}
}

func (w *Worker) onParamChange(format PixelFormat, ok bool) {
	if !ok || format == FormatUnknown {
		log.Warn("format param decode failed or unknown, leaving format unset")
		return
	}
	w.mu.Lock()
	w.format = format
	w.mu.Unlock()
}

// onAddBuffer implements §4.C's Add-buffer callback: choose DMA-BUF when
// available and offered, else sealed shared memory.
func (w *Worker) onAddBuffer(buf *Buffer) {
	w.mu.Lock()
	size := w.size
	format := w.format
	w.mu.Unlock()
	layout := NewBufferLayout(size)

	if w.capturer.SupportsGBM() && buf.Type == BufferDMABUF {
		unit, err := w.capturer.CaptureDMABUF(w.job.Target, w.job.Region, w.job.OverlayCursor)
		if err != nil {
			log.Warn("dmabuf allocation failed", logging.KeyError, err)
			return
		}
		n := unit.PlaneCount
		if n > len(unit.BO) {
			n = len(unit.BO)
		}
		planes := make([]PlaneData, 0, n)
		for i := 0; i < n; i++ {
			bo := unit.BO[i]
			planes = append(planes, PlaneData{
				FD:        bo.FD,
				Offset:    bo.Offset,
				Stride:    bo.Stride,
				ChunkSize: size.Height * bo.Stride,
				MaxSize:   layout.FrameSize,
			})
		}
		buf.data = &Allocation{Kind: BufferDMABUF, Format: format, Planes: planes}
		return
	}

	fd, err := newSealedMemfd("luminous", layout.FrameSize)
	if err != nil {
		log.Warn("sealed memfd allocation failed", logging.KeyError, err)
		return
	}
	buf.data = &Allocation{
		Kind:   BufferSHM,
		Format: format,
		Planes: []PlaneData{{FD: fd, MaxSize: layout.FrameSize, Stride: layout.Stride, ChunkSize: layout.FrameSize}},
	}
}

// onRemoveBuffer implements §4.C's Remove-buffer callback.
func (w *Worker) onRemoveBuffer(buf *Buffer) {
	if buf.data == nil {
		return
	}
	for i := range buf.data.Planes {
		closeFD(buf.data.Planes[i].FD)
		buf.data.Planes[i].FD = -1
	}
	buf.data = nil
}

// onProcess implements §4.C's Process callback.
func (w *Worker) onProcess(buf *Buffer) {
	if buf.data == nil {
		w.requeue(buf)
		return
	}

	var (
		guard Guard
		err   error
	)
	switch buf.data.Kind {
	case BufferSHM:
		fd := buf.data.Planes[0].FD
		guard, err = w.capturer.CaptureSHM(w.job.Target, fd, buf.data.Format, w.job.Region, w.job.OverlayCursor)
	case BufferDMABUF:
		guard, err = w.capturer.FillDMABUF(w.job.Target, planesToBO(buf.data.Planes), w.job.Region, w.job.OverlayCursor)
	}
	if err != nil {
		w.handleProcessError(err, buf)
		return
	}
	if guard != nil {
		guard.Close()
	}

	w.requeue(buf)
}

func (w *Worker) handleProcessError(err error, buf *Buffer) {
	switch {
	case errors.Is(err, ErrBufferConstraints):
		w.renegotiate()
		w.requeue(buf)
	case errors.Is(err, ErrStopped):
		w.mu.Lock()
		node := w.node
		w.mu.Unlock()
		if node != nil {
			if derr := node.Deactivate(); derr != nil {
				log.Warn("deactivate node failed", logging.KeyError, derr)
			}
		}
	default:
		log.Warn("capture process failed", logging.KeyError, err)
		w.requeue(buf)
	}
}

// renegotiate implements the re-probe/reformulate/update path on a
// BufferConstraints failure (§4.C, §8 seed scenario 6).
func (w *Worker) renegotiate() {
	size, formats, err := w.capturer.Probe(w.job.Target)
	if err != nil {
		log.Warn("re-probe after buffer constraints failed", logging.KeyError, err)
		return
	}
	w.mu.Lock()
	w.size = size
	node := w.node
	w.mu.Unlock()

	if node == nil {
		return
	}
	if err := node.UpdateParams(w.formatParams(formats, size)); err != nil {
		log.Warn("renegotiate format failed", logging.KeyError, err)
	}
}

// planesToBO recovers the plane handles FillDMABUF needs from the
// allocation stored at Add-buffer time.
func planesToBO(planes []PlaneData) []BO {
	bo := make([]BO, len(planes))
	for i, p := range planes {
		bo[i] = BO{FD: p.FD, Offset: p.Offset, Stride: p.Stride}
	}
	return bo
}

func closeFD(fd int) {
	if fd >= 0 {
		unix.Close(fd)
	}
}

func (w *Worker) requeue(buf *Buffer) {
	w.mu.Lock()
	node := w.node
	w.mu.Unlock()
	if node == nil {
		return
	}
	if err := node.QueueBuffer(buf); err != nil {
		log.Warn("queue buffer back failed", logging.KeyError, err)
	}
}
