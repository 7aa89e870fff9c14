package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pstuifzand/listkit/internal/diff"
)

// entry is one line of a list file. Lines of the form "key: text" are
// identified by key, other lines by their whole text.
type entry struct {
	Key  string
	Text string
}

func main() {
	dump := flag.Bool("dump", false, "Dump the raw edit script instead of the summary")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: listdiff [options] <old.txt> <new.txt>

Computes the edit script that turns the list in old.txt into the list in
new.txt. Each line is one element. A line "key: text" is matched by key,
so a changed text shows up as a change instead of a remove and insert.

Options:
  -dump   Dump the raw edit script

Examples:
  listdiff before.txt after.txt
  listdiff -dump before.txt after.txt
`)
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(1)
	}

	old, err := readFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading old list: %v\n", err)
		os.Exit(1)
	}
	new, err := readFile(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading new list: %v\n", err)
		os.Exit(1)
	}

	script := compare(old, new)
	if *dump {
		fmt.Print(diff.Dump(script))
		return
	}
	fmt.Print(diff.Render(diff.BuildLines(script, labels(old, new))))
}

func readFile(path string) ([]entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

// parse reads one entry per non-empty line
func parse(r io.Reader) ([]entry, error) {
	var entries []entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		e := entry{Key: line, Text: line}
		if key, text, ok := strings.Cut(line, ": "); ok && key != "" {
			e = entry{Key: key, Text: text}
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}

func compare(old, new []entry) *diff.Script {
	return diff.Compute(old, new,
		func(a, b entry) bool { return a.Key == b.Key },
		func(a, b entry) bool { return a.Text == b.Text },
		nil)
}

func labels(old, new []entry) *diff.Labels {
	return &diff.Labels{
		Old: func(i int) string { return old[i].Text },
		New: func(j int) string { return new[j].Text },
	}
}
