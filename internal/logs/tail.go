package logs

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// FileName is the log file written under the configured log directory.
const FileName = "clickscribe.log"

// TailOptions selects which lines Tail returns.
type TailOptions struct {
	// Limit caps the number of lines. Zero or less returns every line.
	Limit int
	// Contains keeps only lines that include this substring.
	Contains string
}

// Tail returns the last matching lines of the file at path in file order. A
// missing file yields no lines and no error.
func Tail(path string, opts TailOptions) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var r ring
	if opts.Limit > 0 {
		r.buf = make([]string, opts.Limit)
	}
	for scanner.Scan() {
		line := scanner.Text()
		if opts.Contains != "" && !strings.Contains(line, opts.Contains) {
			continue
		}
		r.push(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	return r.lines(), nil
}

// ring keeps the most recent lines; with a nil buf it keeps everything.
type ring struct {
	buf   []string
	all   []string
	next  int
	count int
}

func (r *ring) push(line string) {
	if r.buf == nil {
		r.all = append(r.all, line)
		return
	}
	r.buf[r.next] = line
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

func (r *ring) lines() []string {
	if r.buf == nil {
		return r.all
	}
	out := make([]string, r.count)
	start := 0
	if r.count == len(r.buf) {
		start = r.next
	}
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}
