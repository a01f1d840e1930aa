// Package formatter turns records into the on-disk line format.
//
// TextFormatter produces
//
//	[yyyy-MM-dd HH-mm-ss.fffffff] [<thread name, 30 wide>:<id, 3+ digits>] [<Level>] <message>
//
// one record per line: CR and LF inside a message are written as the
// escapes \r and \n, and ParseLine returns the message in that escaped
// form. Other tools read these files, so the layout is
// fixed; ParseLine is its inverse and is what those tools and the tests
// use.
//
// Formatters implement Formatter and optionally WriterFormatter and
// BufferFormatter. The writer checks for them once at construction: a
// BufferFormatter formats into the writer's own buffer, which keeps the
// write path free of pool traffic, and a WriterFormatter streams into the
// handler. Buffers larger than 64 KiB
// are not returned to the pool.
package formatter
