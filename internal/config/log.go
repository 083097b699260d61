package config

import "github.com/waycrate/xdg-desktop-portal-luminous/internal/logging"

var log = logging.L("config")
