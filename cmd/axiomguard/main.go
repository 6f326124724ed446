// axiomguard — capability access control CLI.
// Checks accesses against the classification table, inspects decision
// logs, previews and executes migrations, and serves enforcement tools
// over MCP.
package main

import "github.com/axiomframework/axiomguard/internal/cli"

func main() {
	cli.Execute()
}
