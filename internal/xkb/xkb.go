// Package xkb binds libxkbcommon directly via cgo, the same approach
// gio takes for its Wayland keyboard handling: there is no separate Go
// wrapper package for xkbcommon in active use, so the client binds the C
// library itself rather than going through an intermediary.
//
// Unlike a keyboard-focused client, the Virtual Input Thread (4.B) uses
// xkb in the opposite direction: given a keysym to emit, it must find
// which keycode and shift level produces that symbol under a known
// keymap, then ask the compositor to emit that keycode after asserting
// the matching level's modifier.
package xkb

import (
	"errors"
	"fmt"
	"unsafe"
)

/*
#cgo LDFLAGS: -lxkbcommon

#include <stdlib.h>
#include <xkbcommon/xkbcommon.h>
*/
import "C"

// Context wraps an xkb_context plus a compiled keymap and state, seeded
// with a US-layout RMLVO (rules/model/layout/variant/options) set.
type Context struct {
	ctx    *C.struct_xkb_context
	keymap *C.struct_xkb_keymap
	state  *C.struct_xkb_state
}

// NewUSLayout compiles the default US keyboard layout, the keymap seeded
// onto every virtual keyboard (§4.B).
func NewUSLayout() (*Context, error) {
	ctx := C.xkb_context_new(C.XKB_CONTEXT_NO_FLAGS)
	if ctx == nil {
		return nil, errors.New("xkb: xkb_context_new failed")
	}

	names := C.struct_xkb_rule_names{
		rules:   nil,
		model:   nil,
		layout:  C.CString("us"),
		variant: nil,
		options: nil,
	}
	defer C.free(unsafe.Pointer(names.layout))

	keymap := C.xkb_keymap_new_from_names(ctx, &names, C.XKB_KEYMAP_COMPILE_NO_FLAGS)
	if keymap == nil {
		C.xkb_context_unref(ctx)
		return nil, errors.New("xkb: xkb_keymap_new_from_names failed")
	}

	state := C.xkb_state_new(keymap)
	if state == nil {
		C.xkb_keymap_unref(keymap)
		C.xkb_context_unref(ctx)
		return nil, errors.New("xkb: xkb_state_new failed")
	}

	return &Context{ctx: ctx, keymap: keymap, state: state}, nil
}

// Destroy releases the underlying xkb objects. Safe to call once; the
// caller (the Virtual Input Thread's owner thread) must not use the
// Context afterward.
func (x *Context) Destroy() {
	if x.state != nil {
		C.xkb_state_unref(x.state)
		x.state = nil
	}
	if x.keymap != nil {
		C.xkb_keymap_unref(x.keymap)
		x.keymap = nil
	}
	if x.ctx != nil {
		C.xkb_context_unref(x.ctx)
		x.ctx = nil
	}
}

// KeymapString renders the compiled keymap as XKB_KEYMAP_FORMAT_TEXT_V1
// text, the form transmitted to the compositor as a sealed memory file
// when the virtual keyboard is bound (§4.B).
func (x *Context) KeymapString() (string, error) {
	cstr := C.xkb_keymap_get_as_string(x.keymap, C.XKB_KEYMAP_FORMAT_TEXT_V1)
	if cstr == nil {
		return "", errors.New("xkb: xkb_keymap_get_as_string failed")
	}
	defer C.free(unsafe.Pointer(cstr))
	return C.GoString(cstr), nil
}

// Resolve finds the keycode and shift level that produce keysym under the
// compiled keymap. Levels above 2 (Shift, AltGr) are not searched, per
// §4.B's level 0/1/2 contract. ok is false if no mapping exists.
func (x *Context) Resolve(keysym uint32) (keycode uint32, level int, ok bool) {
	min := uint32(C.xkb_keymap_min_keycode(x.keymap))
	max := uint32(C.xkb_keymap_max_keycode(x.keymap))

	for kc := min; kc <= max; kc++ {
		for lvl := 0; lvl <= 2; lvl++ {
			var syms *C.xkb_keysym_t
			n := C.xkb_keymap_key_get_syms_by_level(x.keymap, C.xkb_keycode_t(kc), 0, C.xkb_level_index_t(lvl), &syms)
			if n <= 0 {
				continue
			}
			symSlice := unsafe.Slice(syms, int(n))
			for _, sym := range symSlice {
				if uint32(sym) == keysym {
					return kc, lvl, true
				}
			}
		}
	}
	return 0, 0, false
}

// UpdateMask pushes modifier state (depressed/latched/locked bit-sets) into
// the xkb state. Resolve does not read this state; it always searches
// layout 0.
func (x *Context) UpdateMask(depressed, latched, locked, group uint32) {
	C.xkb_state_update_mask(
		x.state,
		C.xkb_mod_mask_t(depressed),
		C.xkb_mod_mask_t(latched),
		C.xkb_mod_mask_t(locked),
		C.xkb_layout_index_t(group),
		C.xkb_layout_index_t(group),
		C.xkb_layout_index_t(group),
	)
}

// ResolveErr is a convenience wrapper returning an error instead of ok=false.
func (x *Context) ResolveErr(keysym uint32) (uint32, int, error) {
	kc, level, ok := x.Resolve(keysym)
	if !ok {
		return 0, 0, fmt.Errorf("xkb: no mapping for keysym 0x%x", keysym)
	}
	return kc, level, nil
}
