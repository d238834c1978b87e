// Command abnf2fuzz reads an ABNF grammar and prints it as a flattened,
// JSON-style grammar for a grammar-based fuzzer.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/k0kubun/pp"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/exp/maps"
	xslices "golang.org/x/exp/slices"

	"github.com/quenbyako/abnf2fuzz/abnf"
	"github.com/quenbyako/abnf2fuzz/fuzzgram"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: abnf2fuzz [-root name] [-ast] [-stats] [file]\n")
	flag.PrintDefaults()
	os.Exit(2)
}

var (
	root    = flag.String("root", fuzzgram.DefaultRoot, "production referenced by the synthetic start rule")
	dumpAST = flag.Bool("ast", false, "dump the parsed rule trees instead of converting")
	stats   = flag.Bool("stats", false, "print the extracted-rule table instead of converting")
)

func main() {
	log.SetPrefix("abnf2fuzz: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	in, name := io.Reader(os.Stdin), "<stdin>"
	switch flag.NArg() {
	case 0:
	case 1:
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in, name = f, flag.Arg(0)
	default:
		usage()
	}

	rules, err := abnf.Parse(name, in)
	if err != nil {
		log.Fatal(err)
	}

	switch {
	case *dumpAST:
		pp.Println(rules)
	case *stats:
		printStats(os.Stdout, rules)
	default:
		out, err := fuzzgram.Convert(rules, *root)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(out)
	}
}

// printStats lists every distinct extracted rule with its ABNF form and how
// many structural occurrences collapsed onto it. An occurrence count above
// one for unrelated shapes is how a naming collision shows up.
func printStats(w io.Writer, rules []abnf.Rule) {
	nodes := fuzzgram.ExtractNested(rules)

	counts := make(map[string]int, len(nodes))
	first := make(map[string]abnf.Node, len(nodes))
	for _, n := range nodes {
		name := fuzzgram.RuleName(n, true)
		counts[name]++
		if _, ok := first[name]; !ok {
			first[name] = n
		}
	}

	names := maps.Keys(counts)
	xslices.Sort(names)

	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"rule", "abnf", "occurrences"})
	for _, name := range names {
		t.Append([]string{name, first[name].String(), strconv.Itoa(counts[name])})
	}
	t.Render()
}
