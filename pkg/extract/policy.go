package extract

import "github.com/yaklabco/genqa/pkg/document"

// Field names recognized by the extraction policy and the context
// tracker. These come from the report format of the generation tool.
const (
	fieldAttempt      = "attempt"
	fieldRound        = "round"
	fieldErrorMsg     = "errorMsg"
	fieldErrorType    = "errorType"
	fieldErrorMessage = "errorMessage"
)

// effectiveContext applies any attempt/round overrides carried by the
// object node to the inherited context and returns the result.
//
// An attempt field overrides only when it holds an integer. A round
// field overrides when it holds an integer or an explicit null; the
// null case clears an inherited value so descendants see "unknown",
// not the ancestor's round.
func effectiveContext(n *document.Node, inherited Context) Context {
	ctx := inherited
	if v, ok := n.Get(fieldAttempt).Int(); ok {
		ctx.Attempt = SomeInt(v)
	}
	if r := n.Get(fieldRound); r != nil {
		if v, ok := r.Int(); ok {
			ctx.Round = SomeInt(v)
		} else if r.Kind == document.KindNull {
			ctx.Round = OptInt{}
		}
	}
	return ctx
}

// extractEntries applies the extraction policy to one object node.
//
// A nested errorMsg container takes precedence: when it is an object
// holding an errorType string and a non-null errorMessage value, every
// message string becomes an entry and the container is reported as
// consumed so the traversal will not descend into it again. Only when
// no container was consumed does the node's own errorType/errorMessage
// pair apply. Both rules never fire for the same node.
//
// A message value that is a string yields one entry; an array yields
// one entry per string element; any other non-null shape consumes the
// field but yields nothing.
func extractEntries(n *document.Node) (entries []Entry, consumed *document.Node) {
	if child := n.Get(fieldErrorMsg); child != nil && child.Kind == document.KindObject {
		if es, ok := entriesFrom(child); ok {
			return es, child
		}
	}
	es, _ := entriesFrom(n)
	return es, nil
}

// entriesFrom reads a direct errorType/errorMessage pair off one
// object. ok reports whether the pair was present (and therefore
// claimed), independent of how many entries it produced.
func entriesFrom(n *document.Node) (entries []Entry, ok bool) {
	etype := n.Get(fieldErrorType)
	if etype == nil || etype.Kind != document.KindString {
		return nil, false
	}
	msgs := n.Get(fieldErrorMessage)
	if msgs == nil || msgs.Kind == document.KindNull {
		return nil, false
	}
	for _, m := range msgs.Strings() {
		entries = append(entries, Entry{Type: etype.Str, Message: m})
	}
	return entries, true
}
