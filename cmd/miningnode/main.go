package main

import (
	"fmt"
	"os"

	"github.com/archethic-network/mining-core/cmd/miningnode/launcher"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
