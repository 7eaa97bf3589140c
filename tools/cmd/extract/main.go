package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aashavskiy/tennisbookingbot/pkg/extract"
)

// Debug CLI: run the extraction pipeline against one image file and print
// what was read and what was extracted.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: go run ./tools/cmd/extract <image> [hint text]")
		os.Exit(2)
	}
	path := os.Args[1]
	hint := ""
	if len(os.Args) > 2 {
		hint = os.Args[2]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("read %s: %v\n", path, err)
		os.Exit(1)
	}
	p := extract.NewPipeline(extract.DefaultConfig(), nil)
	info, combined, err := p.ExtractFromBytes(context.Background(), data, hint)
	fmt.Printf("err=%v\n", err)
	fmt.Printf("combined text:\n%s\n\n", combined)
	fmt.Printf("date=%q time=%q court=%q complete=%v missing=%v\n",
		info.Date, info.Time, info.Court, info.Complete(), info.Missing())
}
