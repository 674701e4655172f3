// Package log provides Silt's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Components receive an injected Logger
// tagged with a component field rather than reaching for a global.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("compaction"), log.Str("topic", "orders"))
//	l.Info("run complete", log.Int("keys", 42))
//
// # Interop
//
// To integrate with libraries expecting *log.Logger (Pebble's event logger,
// for instance), use RedirectStdLog.
package log
