// Package logging assembles the structured slog loggers used by every
// casework component.
//
// A run logger writes to the console and to one timestamped file under the
// configured log directory, stamping each record with the run id. Console
// output uses a human-oriented layout (timestamp, level, component, then a
// "case · stage" subject); the file uses the configured format. Context
// helpers attach case and stage names so deeper layers inherit them without
// threading extra parameters.
//
// Tests and wiring code that cannot fail should use NewNop.
package logging
