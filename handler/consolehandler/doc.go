// Package consolehandler provides a sink that writes formatted lines to
// any io.Writer (default: os.Stdout). It backs the console logger kind
// and the process default logger.
package consolehandler
