// Command healer analyzes migration output for missing-table errors.
package main

import "github.com/aqasim81/migration-healer/internal/cli"

func main() {
	cli.Execute()
}
