package routemap

import "fmt"

// Routes returns every RouteEntry of the tree, depth-first in
// registration order: the same order Apply traverses.
func (r *Router) Routes() []*RouteEntry {
	var out []*RouteEntry
	collectEntries(r.root, &out)
	return out
}

func collectEntries(n *RouteNode, out *[]*RouteEntry) {
	*out = append(*out, n.entries...)
	for _, child := range n.children {
		collectEntries(child, out)
	}
}

// PrintRoutes prints a table of every registration with its handler
// stack size. For debugging route setup.
func (r *Router) PrintRoutes() {
	for _, entry := range r.Routes() {
		fmt.Printf("%s %s (%s)\n", entry.Method, entry.Path, entry.Name)
		if entry.Mount {
			fmt.Println("  Mount: true")
		}
		if len(entry.Constraints) > 0 {
			for name, c := range entry.Constraints {
				fmt.Printf("  Constraint %s: %s\n", name, c.Expr())
			}
		}
		fmt.Printf("  Handlers: %d\n", len(entry.Handlers))
		fmt.Println()
	}
}
