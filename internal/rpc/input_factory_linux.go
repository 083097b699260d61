//go:build linux

package rpc

import (
	"context"
	"fmt"
	"runtime"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/vinput"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/xkb"
)

// wlInputFactory is the production InputFactory: a US-layout xkb context
// feeding a Wayland virtual-keyboard/virtual-pointer pair (§4.B, §6.6).
type wlInputFactory struct{}

// NewWLInputFactory constructs the default Wayland-backed InputFactory.
func NewWLInputFactory() InputFactory { return wlInputFactory{} }

func (wlInputFactory) NewWorker(geom vinput.Geometry, onDead func()) (*vinput.Worker, error) {
	ctx, err := xkb.NewUSLayout()
	if err != nil {
		return nil, fmt.Errorf("rpc: build xkb context: %w", err)
	}
	keymap, err := ctx.KeymapString()
	if err != nil {
		ctx.Destroy()
		return nil, fmt.Errorf("rpc: serialize keymap: %w", err)
	}
	kbd, ptr, err := vinput.BindDevices(context.Background(), keymap)
	if err != nil {
		ctx.Destroy()
		return nil, fmt.Errorf("rpc: bind virtual input devices: %w", err)
	}
	w := vinput.NewWorker(kbd, ptr, ctx, geom, onDead)
	// The underlying Wayland proxies are not safe to use from multiple
	// threads, so the worker's loop runs on its own dedicated OS thread
	// (§4.B, §5).
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		w.Run()
		ctx.Destroy()
	}()
	return w, nil
}
