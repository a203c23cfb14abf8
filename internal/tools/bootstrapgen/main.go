package main

import (
	"flag"
	"fmt"
	"os"

	"pkt.systems/folio/bootstrap"
)

func main() {
	var output string
	var overwrite bool
	var tag string
	flag.StringVar(&output, "output", ".", "output directory")
	flag.StringVar(&output, "o", ".", "output directory")
	flag.BoolVar(&overwrite, "force", false, "overwrite existing files")
	flag.StringVar(&tag, "tag", "", "image tag (defaults to the build version)")
	flag.Parse()

	files, err := bootstrap.DefaultFiles(bootstrap.Options{ImageTag: tag})
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	paths, err := bootstrap.WriteFiles(output, files, overwrite)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	fmt.Fprintln(os.Stdout, paths.ConfigPath)
	fmt.Fprintln(os.Stdout, paths.ComposePath)
	fmt.Fprintln(os.Stdout, paths.Containerfile)
}
