package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

var (
	textNameStyle  = lipgloss.NewStyle().Bold(true)
	textRoleStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	textCountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	textGlyphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Text renders the visible part of the tree as an indented outline.
// Hidden nodes are skipped.
func Text(t *Tree) string {
	var b strings.Builder
	for i, root := range t.Roots {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(textTree(root).String())
		b.WriteString("\n")
	}
	return b.String()
}

func textTree(n *Node) *tree.Tree {
	tr := tree.Root(textLabel(n)).Enumerator(tree.RoundedEnumerator)
	for _, c := range n.Children {
		if c.Hidden {
			continue
		}
		if len(c.Children) == 0 {
			tr.Child(textLabel(c))
			continue
		}
		tr.Child(textTree(c))
	}
	return tr
}

// TextLabel is the one-line description of a node used by terminal views.
func TextLabel(n *Node) string { return textLabel(n) }

func textLabel(n *Node) string {
	glyph := "   "
	if n.HasToggle {
		glyph = textGlyphStyle.Render(n.Glyph)
	}
	label := fmt.Sprintf("%s %s", glyph, textNameStyle.Render(n.Name))
	if n.Role != "" {
		label += " " + textRoleStyle.Render(n.Role)
	}
	if n.HasToggle {
		label += " " + textCountStyle.Render(fmt.Sprintf("(%s, %s)", n.DirectLabel, n.IndirectLabel))
	}
	return label
}
