// talentsift matches resumes against job descriptions: it embeds both into a
// vector store, re-ranks retrieved candidates with query-specific aspect
// weights, and serves the results over HTTP.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
