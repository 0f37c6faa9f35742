// Package vlog's severity levels and fallback to the standard logger are
// grounded in janelia-flyem-dvid/dvid's log.go and log_local.go. See
// vlog.go for the Logger interface and the lumberjack-backed FileLogger.
package vlog
