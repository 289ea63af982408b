// Package logger provides leveled console logging for envcloak commands.
//
// # Verbosity Levels
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details
//
// Without flags, only critical warnings and errors are shown.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose or --debug
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Shown with --verbose or --debug
//	Logger.WarnfAlways()     // Always shown, e.g. when the audit log cannot be written
//	Logger.ErrorfAndReturn() // Returns the formatted error, logged with --debug
//
// The root command creates the logger in its PersistentPreRunE:
//
//	Logger = logger.Logger{Verbose: verbose, Debug: debug}
//	Logger.Infof("Encrypting %d files", count)
package logger
