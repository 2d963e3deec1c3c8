package dom

import (
	"errors"
	"sync"

	"golang.org/x/net/html"
)

// BodyStrategy selects how a table body is replaced with new row markup.
type BodyStrategy int

const (
	// BodyInPlace parses the rows in a tbody context and swaps the children of
	// the live body.
	BodyInPlace BodyStrategy = iota + 1
	// BodySwap builds a whole table out of tree and swaps the body node.
	BodySwap
)

func (s BodyStrategy) String() string {
	switch s {
	case BodyInPlace:
		return "in-place"
	case BodySwap:
		return "swap"
	default:
		return "unknown"
	}
}

var (
	probeOnce     sync.Once
	probeStrategy BodyStrategy
)

// ProbeBodyStrategy reports the body replacement strategy supported by the
// parser. The probe runs once per process.
func ProbeBodyStrategy() BodyStrategy {
	probeOnce.Do(func() {
		probeStrategy = BodySwap
		nodes, err := ParseFragment("<tr><td>probe</td></tr>", Element("tbody"))
		if err != nil {
			return
		}
		rows := 0
		for _, n := range nodes {
			if Is(n, "tr") && Is(Child(n, "td"), "td") {
				rows++
			}
		}
		if rows == 1 {
			probeStrategy = BodyInPlace
		}
	})
	return probeStrategy
}

// ReplaceBody replaces the contents of body (a tbody child of table) with the
// rows described by markup. It returns the live body node, which differs from
// body when the strategy swaps nodes. On error the tree is left untouched.
func ReplaceBody(table, body *html.Node, markup string, strategy BodyStrategy) (*html.Node, error) {
	if table == nil || body == nil {
		return nil, errors.New("dom: table and body are required")
	}

	switch strategy {
	case BodySwap:
		nodes, err := ParseFragment("<table><tbody>"+markup+"</tbody></table>", Element("div"))
		if err != nil {
			return nil, err
		}
		var parsed *html.Node
		for _, n := range nodes {
			if Is(n, "table") {
				parsed = Child(n, "tbody")
				break
			}
		}
		if parsed == nil {
			parsed = Element("tbody")
		}
		copyAttrs(parsed, body)
		Detach(parsed)
		if body.Parent == table {
			table.InsertBefore(parsed, body)
			table.RemoveChild(body)
		} else {
			table.AppendChild(parsed)
		}
		return parsed, nil
	default:
		nodes, err := ParseFragment(markup, Element("tbody"))
		if err != nil {
			return nil, err
		}
		Empty(body)
		for _, n := range nodes {
			body.AppendChild(n)
		}
		return body, nil
	}
}

func copyAttrs(dst, src *html.Node) {
	dst.Attr = append(dst.Attr[:0], src.Attr...)
}
