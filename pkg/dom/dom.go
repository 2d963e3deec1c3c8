package dom

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element creates a detached element node. Attributes are supplied as
// key/value pairs; a trailing key without a value is ignored.
func Element(tag string, attrs ...string) *html.Node {
	tag = strings.ToLower(strings.TrimSpace(tag))
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		SetAttr(node, attrs[i], attrs[i+1])
	}
	return node
}

// TextNode creates a detached text node.
func TextNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// Is reports whether n is an element with the given tag name.
func Is(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

// Children returns the direct element children of n. An empty tag matches any
// element.
func Children(n *html.Node, tag string) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if tag == "" || c.Data == tag {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first direct element child with the given tag.
func Child(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (tag == "" || c.Data == tag) {
			return c
		}
	}
	return nil
}

// FindAll walks the subtree below n (excluding n) in document order and returns
// every element matching tag.
func FindAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	walk(n, func(c *html.Node) bool {
		if c != n && c.Type == html.ElementNode && (tag == "" || c.Data == tag) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Find returns the first descendant of n matching tag in document order.
func Find(n *html.Node, tag string) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if c != n && Is(c, tag) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindClass returns the first descendant of n carrying class.
func FindClass(n *html.Node, class string) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if c != n && HasClass(c, class) {
			found = c
			return false
		}
		return true
	})
	return found
}

func walk(n *html.Node, visit func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// Closest returns n or its nearest ancestor with the given tag, stopping at
// (and including) limit.
func Closest(n *html.Node, tag string, limit *html.Node) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if Is(cur, tag) {
			return cur
		}
		if cur == limit {
			break
		}
	}
	return nil
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *html.Node) bool {
	if root == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == root {
			return true
		}
	}
	return false
}

// Index returns the position of n among its parent's element children, or -1
// when n is detached.
func Index(n *html.Node) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	idx := 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c == n {
			return idx
		}
		if c.Type == html.ElementNode {
			idx++
		}
	}
	return -1
}

// Attr returns the value of key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces key on n.
func SetAttr(n *html.Node, key, value string) {
	if n == nil || key == "" {
		return
	}
	for i, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr drops key from n.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	out := n.Attr[:0]
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			continue
		}
		out = append(out, attr)
	}
	n.Attr = out
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	value, _ := Attr(n, "class")
	return strings.Fields(value)
}

// HasClass reports whether n carries class.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode || class == "" {
		return false
	}
	for _, c := range Classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends the given classes to n, skipping ones already present.
func AddClass(n *html.Node, classes ...string) {
	if n == nil || n.Type != html.ElementNode {
		return
	}
	current := Classes(n)
	changed := false
	for _, class := range classes {
		for _, c := range strings.Fields(class) {
			if !containsString(current, c) {
				current = append(current, c)
				changed = true
			}
		}
	}
	if changed {
		SetAttr(n, "class", strings.Join(current, " "))
	}
}

// RemoveClass removes class from n. The attribute is dropped when no class
// remains.
func RemoveClass(n *html.Node, class string) {
	if n == nil || n.Type != html.ElementNode {
		return
	}
	current := Classes(n)
	out := current[:0]
	for _, c := range current {
		if c != class {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(out, " "))
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// Empty removes every child of n.
func Empty(n *html.Node) {
	if n == nil {
		return
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Wrap inserts wrapper in place of n and moves n inside it.
func Wrap(n, wrapper *html.Node) {
	if n == nil || wrapper == nil {
		return
	}
	if parent := n.Parent; parent != nil {
		parent.InsertBefore(wrapper, n)
		parent.RemoveChild(n)
	}
	wrapper.AppendChild(n)
}

// Prepend inserts child as the first child of n.
func Prepend(n, child *html.Node) {
	if n == nil || child == nil {
		return
	}
	Detach(child)
	if n.FirstChild == nil {
		n.AppendChild(child)
		return
	}
	n.InsertBefore(child, n.FirstChild)
}

// Append moves child to the end of n.
func Append(n, child *html.Node) {
	if n == nil || child == nil {
		return
	}
	Detach(child)
	n.AppendChild(child)
}

// InsertBefore moves child before ref under ref's parent.
func InsertBefore(ref, child *html.Node) {
	if ref == nil || ref.Parent == nil || child == nil {
		return
	}
	Detach(child)
	ref.Parent.InsertBefore(child, ref)
}

// ParseFragment parses markup in the context of the given element and returns
// the detached top-level nodes.
func ParseFragment(markup string, context *html.Node) ([]*html.Node, error) {
	if context == nil {
		context = Element("div")
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	return nodes, nil
}

// ParseElement parses markup and returns its first top-level element.
func ParseElement(markup string) (*html.Node, error) {
	nodes, err := ParseFragment(markup, Element("body"))
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return n, nil
		}
	}
	return nil, errors.New("dom: markup contains no element")
}

// Render serialises n and its subtree.
func Render(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("dom: render: %w", err)
	}
	return buf.String(), nil
}

// InnerHTML serialises the children of n.
func InnerHTML(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("dom: render: %w", err)
		}
	}
	return buf.String(), nil
}
