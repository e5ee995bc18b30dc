package extract

import "github.com/yaklabco/genqa/pkg/document"

// workItem is one pending traversal step: a node plus the context
// snapshot it inherits.
type workItem struct {
	node *document.Node
	ctx  Context
}

// Collect walks the document once and returns every extracted entry
// grouped by the context in effect at its point of extraction.
func Collect(root *document.Node) *GroupedSink {
	sink := NewGroupedSink()
	CollectInto(root, sink)
	return sink
}

// CollectInto walks root and appends extracted entries into sink.
//
// The walk is iterative (explicit LIFO work stack) so arbitrarily deep
// documents cannot exhaust the call stack, and it keeps an
// identity-keyed visited set so a node reachable through several
// parents, or through a reference cycle, is processed exactly once.
// Within a group, entries therefore land in stack-pop discovery order,
// which reverses sibling declaration order; the reports this feeds are
// keyed by group, not by cross-group order, so the discipline is
// locked by test rather than changed.
func CollectInto(root *document.Node, sink *GroupedSink) {
	if root == nil {
		return
	}

	stack := []workItem{{node: root}}
	seen := make(map[*document.Node]struct{})

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := seen[it.node]; ok {
			continue
		}
		seen[it.node] = struct{}{}

		switch it.node.Kind {
		case document.KindObject:
			ctx := effectiveContext(it.node, it.ctx)

			entries, consumed := extractEntries(it.node)
			for _, e := range entries {
				sink.Add(ctx, e)
			}

			// Children inherit the effective context. A consumed
			// errorMsg container was already harvested as a unit and
			// must not be re-walked.
			for _, f := range it.node.Fields {
				if f.Value == nil || f.Value == consumed {
					continue
				}
				stack = append(stack, workItem{node: f.Value, ctx: ctx})
			}

		case document.KindArray:
			for _, el := range it.node.Items {
				if el == nil {
					continue
				}
				stack = append(stack, workItem{node: el, ctx: it.ctx})
			}
		}
		// Scalars carry nothing to extract or propagate.
	}
}
