package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ginevra-pp/ginevra"
)

// defineList collects repeated -D flags.
type defineList []string

func (d *defineList) String() string { return strings.Join(*d, ",") }

func (d *defineList) Set(s string) error {
	*d = append(*d, s)
	return nil
}

// checkPath accepts only .h and .cpp files (case-sensitive).
func checkPath(path string) error {
	if !strings.HasSuffix(path, ".h") && !strings.HasSuffix(path, ".cpp") {
		return fmt.Errorf("invalid file extension: %s", path)
	}
	return nil
}

// parseDefine splits a -D argument into name and value; a bare NAME
// defines it as "1".
func parseDefine(s string) (name, value string) {
	if i := strings.IndexByte(s, '='); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, "1"
}

func main() {
	var defines defineList
	resolve := flag.Bool("resolve", false, "resolve known macro names inside #define values at definition time")
	flag.Var(&defines, "D", "predefine a macro as NAME=VALUE, or NAME for 1 (may be repeated)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: ginevra [flags] filename[.cpp,.h]")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)
	if err := checkPath(path); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not open input file: %s\n", path)
		os.Exit(1)
	}
	defer f.Close()

	if st, err := f.Stat(); err == nil && st.Size() == 0 {
		os.Exit(1)
	}

	p := ginevra.New(os.Stdout, os.Stderr)
	p.ResolveDefinitions = *resolve
	for _, d := range defines {
		p.Define(parseDefine(d))
	}
	if err := p.Run(f); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
