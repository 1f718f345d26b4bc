// Package render turns scan statistics into node-link diagrams.
//
// Each package becomes a node connected to one node per observed version,
// labeled with its occurrence count. The DOT output can be written as-is or
// rendered to SVG with [RenderSVG].
package render

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/goccy/go-graphviz"

	"github.com/zomglings/busybody/pkg/venv"
)

// ToDOT converts aggregated dependency statistics to Graphviz DOT format.
// Output is deterministic: packages and versions are emitted in sorted
// order, so identical statistics produce identical DOT text.
func ToDOT(stats venv.Statistics) string {
	var buf bytes.Buffer
	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, pkg := range slices.Sorted(maps.Keys(stats.DependencyCounts)) {
		fmt.Fprintf(&buf, "  %q [fillcolor=lightblue];\n", pkg)
		for _, version := range slices.Sorted(maps.Keys(stats.DependencyCounts[pkg])) {
			count := stats.DependencyCounts[pkg][version]
			id := versionNodeID(pkg, version)
			fmt.Fprintf(&buf, "  %q [label=%q];\n", id, versionLabel(version, count))
			fmt.Fprintf(&buf, "  %q -> %q;\n", pkg, id)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// versionNodeID builds a unique node identifier for a package version.
// The package name is included because the same version string can occur
// under many packages.
func versionNodeID(pkg, version string) string {
	if version == "" {
		return pkg + "==?"
	}
	return pkg + "==" + version
}

func versionLabel(version string, count int) string {
	if version == "" {
		version = "(unpinned)"
	}
	return fmt.Sprintf("%s\nx%d", version, count)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
