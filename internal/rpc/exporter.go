package rpc

import "github.com/godbus/dbus/v5"

// Exporter is the subset of *dbus.Conn the dispatcher needs to bind and
// unbind per-call Request objects. Abstracted so the dispatcher's
// business logic is testable without a live bus connection, the same way
// internal/capture and internal/broker abstract their external
// collaborators.
type Exporter interface {
	Export(v any, path dbus.ObjectPath, iface string) error
	Unexport(path dbus.ObjectPath, iface string) error
	Emit(path dbus.ObjectPath, name string, values ...any) error
}

// connExporter adapts a real *dbus.Conn to Exporter.
type connExporter struct{ conn *dbus.Conn }

// NewConnExporter wraps a live session-bus connection.
func NewConnExporter(conn *dbus.Conn) Exporter { return &connExporter{conn: conn} }

func (c *connExporter) Export(v any, path dbus.ObjectPath, iface string) error {
	return c.conn.Export(v, path, iface)
}

func (c *connExporter) Unexport(path dbus.ObjectPath, iface string) error {
	return c.conn.Export(nil, path, iface)
}

func (c *connExporter) Emit(path dbus.ObjectPath, name string, values ...any) error {
	return c.conn.Emit(path, name, values...)
}
