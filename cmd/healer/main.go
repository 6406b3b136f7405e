// Command healer rebuilds the canonical Spanish content corpus from a
// loosely-structured content tree, repairing merge conflicts and
// collapsing duplicate records along the way.
package main

import (
	"os"

	"github.com/mmspanish/healer/cmd/healer/app"
)

func main() {
	os.Exit(app.Execute())
}
