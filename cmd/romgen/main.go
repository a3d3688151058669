package main

import (
	"flag"
	"fmt"

	"github.com/thelolagemann/lr35902/internal/romgen"
	"github.com/thelolagemann/lr35902/pkg/log"
)

func main() {
	out := flag.String("o", "test.bin", "path to write the test ROM to")
	flag.Parse()

	if err := romgen.Write(*out); err != nil {
		log.New().Fatal(err.Error())
	}
	fmt.Printf("test ROM created: %s\n", *out)
}
