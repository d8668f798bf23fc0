package main

import (
	"log"

	"github.com/MrSnakeDoc/bookmarks/internal/cli"
	"github.com/MrSnakeDoc/bookmarks/internal/version"
)

func main() {
	if err := cli.Run(version.String()); err != nil {
		log.Fatalf("❌ bookmarks: %v", err)
	}
}
