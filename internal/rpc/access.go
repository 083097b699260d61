package rpc

import "github.com/godbus/dbus/v5"

// Access implements org.freedesktop.impl.portal.Access (§4.E): a single
// method forwarding to the Selection Broker's permission prompt.
type Access struct {
	d *Dispatcher
}

func (a *Access) Version() (uint32, *dbus.Error) { return 1, nil }

// AccessDialog forwards to the Selection Broker's permission prompt;
// Success with an empty map on accept, Cancelled on reject.
func (a *Access) AccessDialog(handle dbus.ObjectPath, appID, parentWindow, title, subtitle, body string, options dict) (uint32, dict, *dbus.Error) {
	req, err := NewRequest(a.d.exporter(), handle)
	if err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	defer req.Release()

	granted, err := a.d.broker.Permission(body)
	if err != nil {
		return uint32(ResponseCancelled), dict{}, nil
	}
	if !granted {
		return uint32(ResponseCancelled), dict{}, nil
	}
	return uint32(ResponseSuccess), dict{}, nil
}
