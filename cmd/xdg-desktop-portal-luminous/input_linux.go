//go:build linux

package main

import "github.com/waycrate/xdg-desktop-portal-luminous/internal/rpc"

func newInputFactory() rpc.InputFactory {
	return rpc.NewWLInputFactory()
}
