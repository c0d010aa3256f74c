// Package render formats trees, search hits and index statistics as
// plain text for the CLI and the MCP server.
package render

import (
	"fmt"
	"io"
	"time"

	"kifunav/internal/application/commands"
	"kifunav/internal/domain"
)

// Tree writes one line per position. The main continuation keeps
// the indentation of its parent; each variation is indented one level.
func Tree(w io.Writer, tree domain.Tree) {
	root, ok := tree.Root()
	if !ok {
		return
	}
	fmt.Fprintf(w, "0. start  %s\n", cursorKeyOf(tree, root.ID))
	children(w, tree, root, "")
}

func children(w io.Writer, tree domain.Tree, parent domain.PositionNode, prefix string) {
	// Variations first so the main line reads on after them
	for i := 1; i < len(parent.Children); i++ {
		line(w, tree, parent.Children[i], prefix+"  ")
	}
	if len(parent.Children) > 0 {
		line(w, tree, parent.Children[0], prefix)
	}
}

func line(w io.Writer, tree domain.Tree, id domain.NodeID, prefix string) {
	n, ok := tree.Node(id)
	if !ok {
		return
	}
	fmt.Fprintf(w, "%s%d. %s  %s", prefix, n.Tesuu, n.Move, cursorKeyOf(tree, id))
	if n.Comment != "" {
		fmt.Fprintf(w, "  # %s", n.Comment)
	}
	fmt.Fprintln(w)
	children(w, tree, n, prefix)
}

func cursorKeyOf(tree domain.Tree, id domain.NodeID) string {
	c, ok := tree.CursorOf(id)
	if !ok {
		return "?"
	}
	return c.Key()
}

// Result formats one search hit. Hits in the current record are marked with '*'.
func Result(r commands.SearchResult) string {
	marker := " "
	if r.Current {
		marker = "*"
	}
	path := r.Path
	if path == "" {
		path = r.FileIdentity
	}
	return fmt.Sprintf("%s %s  %s  %s", marker, path, r.Cursor.Key(), r.NodeID)
}

// Results writes one line per hit, or "No results." when there are none
func Results(w io.Writer, results []commands.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	for _, r := range results {
		fmt.Fprintln(w, Result(r))
	}
}

// Stats summarizes an index sync
func Stats(s *domain.SyncStats) string {
	return fmt.Sprintf("indexed %d, unchanged %d, failed %d, positions %d in %s",
		s.FilesIndexed, s.FilesUnchanged, s.FilesFailed, s.PositionsAdded, s.Duration.Round(time.Millisecond))
}

// End formats the end of a plan: the node and cursor on the first line,
// then the numbered moves leading to it
func End(w io.Writer, end *commands.PlanEnd) {
	fmt.Fprintf(w, "%s  %s\n", end.NodeID, end.Cursor.Key())
	for i, m := range end.Moves {
		fmt.Fprintf(w, "%d. %s\n", i+1, m)
	}
}
