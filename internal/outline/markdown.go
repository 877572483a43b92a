package outline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Node is an outline entry with the entries nested beneath it.
type Node struct {
	Entry
	Children []*Node
}

// Tree nests the flat outline: each entry becomes a child of the closest
// preceding entry with a smaller level. Skipped levels are kept as-is.
func (r Result) Tree() []*Node {
	type stackEntry struct {
		node  *Node
		level Level
	}
	root := &Node{}
	stack := []stackEntry{{node: root, level: LevelNone}}

	for _, e := range r.Outline {
		n := &Node{Entry: e}
		for len(stack) > 1 && stack[len(stack)-1].level >= e.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, n)
		stack = append(stack, stackEntry{node: n, level: e.Level})
	}
	return root.Children
}

// WriteMarkdown writes the title as a heading followed by the outline as a
// nested bullet list with page references.
func (r Result) WriteMarkdown(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n", escapeMarkdown(r.Title))

	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			fmt.Fprintf(bw, "%s- %s (p. %d)\n", strings.Repeat("  ", depth), escapeMarkdown(n.Text), n.Page)
			walk(n.Children, depth+1)
		}
	}
	if len(r.Outline) > 0 {
		bw.WriteString("\n")
		walk(r.Tree(), 0)
	}
	return bw.Flush()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
