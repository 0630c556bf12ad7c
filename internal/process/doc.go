// Package process runs external tools (pandoc, vector image converters) and
// cleans up after them.
//
// Every command is started in its own process group so that canceling its
// context terminates the tool and anything it spawned. LibreOffice in
// particular forks helper processes that would otherwise outlive a timeout.
package process
