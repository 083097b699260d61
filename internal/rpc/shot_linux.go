//go:build linux

package rpc

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/sys/unix"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/capture"
)

// captureFrame reads one SHM frame into a decoded NRGBA image, for the
// RPC Dispatcher's one-shot Screenshot/PickColor path (§4.E) — a single
// capture outside any CastJob's producer-node lifecycle, so it allocates
// and tears down its own sealed memfd rather than going through a
// capture.Worker.
func captureFrame(capturer capture.FrameCapturer, target capture.Target, format capture.PixelFormat, size capture.Size, region *capture.Region, overlayCursor bool) (*image.NRGBA, error) {
	layout := capture.NewBufferLayout(size)
	fd, err := capture.NewSealedMemfd("luminous-shot", layout.FrameSize)
	if err != nil {
		return nil, fmt.Errorf("rpc: allocate shot memfd: %w", err)
	}
	defer unix.Close(fd)

	guard, err := capturer.CaptureSHM(target, fd, format, region, overlayCursor)
	if err != nil {
		return nil, fmt.Errorf("rpc: capture shm: %w", err)
	}
	defer guard.Close()

	data, err := unix.Mmap(fd, 0, int(layout.FrameSize), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("rpc: mmap shot frame: %w", err)
	}
	defer unix.Munmap(data)

	img := image.NewNRGBA(image.Rect(0, 0, int(size.Width), int(size.Height)))
	copy(img.Pix, toNRGBAOrder(data, format))
	return img, nil
}

// toNRGBAOrder swaps B/R channels when the compositor reports a
// BGRA/BGRX frame, so the caller can treat the buffer as NRGBA uniformly.
func toNRGBAOrder(buf []byte, format capture.PixelFormat) []byte {
	out := make([]byte, len(buf))
	copy(out, buf)
	if format == capture.FormatBGRA || format == capture.FormatBGRX {
		for i := 0; i+3 < len(out); i += 4 {
			out[i], out[i+2] = out[i+2], out[i]
		}
	}
	return out
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("rpc: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
