// Command gridline runs the demo table server.
package main

import (
	"fmt"
	"os"

	// database drivers selected via database.driver configuration
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/gridline/gridline/pkg/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
