// Command winframe dumps the second-frames of one or more WIN files to
// stdout, one pretty-printed frame.SecondFrame at a time.
//
// ref: _examples/mewkiz-flac/cmd/rsf (flag.Parse over file args,
// godebug/pretty.Print over parsed structures).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kylelemons/godebug/pretty"

	"github.com/go-hypomh/win/frame"
)

func main() {
	flag.Parse()
	for _, filePath := range flag.Args() {
		if err := dump(filePath); err != nil {
			log.Println(err)
		}
		fmt.Println()
	}
}

func dump(filePath string) error {
	fmt.Println("path:", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	r := frame.NewReader(f)
	frames, err := r.All(context.Background())
	if err != nil {
		return err
	}
	for _, sf := range frames {
		fmt.Println("second-frame:")
		pretty.Print(sf)
	}
	return nil
}
