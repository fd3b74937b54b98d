// Public domain.

package main

import "github.com/maven-iuvs/iuvs/internal/iprog"

func main() {
	iprog.Main()
}
