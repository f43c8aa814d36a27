// Package log wraps zap with APM core correlation (apmzap) and a
// context-carried logger, matching the convention used across every
// component in this module: pull the logger from ctx, never from a
// global unless ctx has none.
package log
