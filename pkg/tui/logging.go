package tui

import "github.com/charmbracelet/log"

// debug logs at debug level; the global logger level is set from the --debug flag
func debug(msg string, keyvals ...interface{}) {
	log.Debug(msg, keyvals...)
}
