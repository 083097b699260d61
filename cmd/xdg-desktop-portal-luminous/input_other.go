//go:build !linux

package main

import (
	"errors"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/rpc"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/vinput"
)

type unsupportedInputFactory struct{}

func (unsupportedInputFactory) NewWorker(vinput.Geometry, func()) (*vinput.Worker, error) {
	return nil, errors.New("xdg-desktop-portal-luminous: RemoteDesktop input injection requires Linux/Wayland")
}

func newInputFactory() rpc.InputFactory {
	return unsupportedInputFactory{}
}
