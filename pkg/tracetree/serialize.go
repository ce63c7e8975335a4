//go:build linux

package tracetree

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// jsonNode mirrors spec.md §4.7's wire shape:
// { pid, started, ended, cmdline, cwd, children: [...] }.
type jsonNode struct {
	PID      int        `json:"pid"`
	Started  string     `json:"started"`
	Ended    *string    `json:"ended"`
	Cmdline  []string   `json:"cmdline"`
	Cwd      *string    `json:"cwd"`
	Children []jsonNode `json:"children"`
}

// buildJSON converts the subtree rooted at n into its JSON form.
func buildJSON(n *node) jsonNode {
	jn := jsonNode{
		PID:     n.info.PID,
		Started: n.info.Started.Format(time.RFC3339),
		Cmdline: append([]string(nil), n.info.Cmdline...),
	}
	if n.info.HasEnded() {
		s := n.info.Ended.Format(time.RFC3339)
		jn.Ended = &s
	}
	if n.info.Cwd != "" {
		cwd := n.info.Cwd
		jn.Cwd = &cwd
	}
	jn.Children = make([]jsonNode, 0, len(n.children))
	for _, c := range n.children {
		jn.Children = append(jn.Children, buildJSON(c))
	}
	return jn
}

// WriteJSON serializes the tree as nested JSON objects.
func (t *Tree) WriteJSON(w io.Writer) error {
	jn := buildJSON(t.arena.root)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jn)
}

// WriteText serializes the tree as indented text: one line per node,
// prefixed by one tab per depth level, formatted
// "pid basename-of-argv0 rest-of-argv [elapsed-or-\"?\"]".
func (t *Tree) WriteText(w io.Writer) error {
	depth := 0
	var werr error
	t.Traverse(func(edge Edge, info ProcessInfo) bool {
		if werr != nil {
			return false
		}
		switch edge {
		case Enter:
			if _, err := fmt.Fprintln(w, textLine(depth, info)); err != nil {
				werr = err
				return false
			}
			depth++
		case Leave:
			depth--
		}
		return true
	})
	return werr
}

func textLine(depth int, info ProcessInfo) string {
	name := "<unknown>"
	if len(info.Cmdline) > 0 && info.Cmdline[0] != "" {
		name = filepath.Base(info.Cmdline[0])
	}
	rest := ""
	if len(info.Cmdline) > 1 {
		rest = strings.Join(info.Cmdline[1:], " ") + " "
	}
	elapsed := "?"
	if info.HasEnded() {
		elapsed = fmtDuration(info.Ended.Sub(info.Started))
	}
	return fmt.Sprintf("%s%d %s %s[%s]", strings.Repeat("\t", depth), info.PID, name, rest, elapsed)
}

func fmtDuration(d time.Duration) string {
	return fmt.Sprintf("%d.%03ds", int64(d/time.Second), int64(d/time.Millisecond)%1000)
}
