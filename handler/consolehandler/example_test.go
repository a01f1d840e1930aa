package consolehandler_test

import (
	"os"

	"github.com/philipp01105/tradingengine/handler/consolehandler"
)

// Write a line to stdout.
func ExampleNew() {
	h := consolehandler.New(os.Stdout)
	defer h.Close()

	_ = h.Write([]byte("hello\n"))
	_ = h.Flush()
	// Output:
	// hello
}
