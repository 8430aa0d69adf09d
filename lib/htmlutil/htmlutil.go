package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var tracer = otel.Tracer("gdpetl.lib.htmlutil")

// GetText returns the concatenated text of every visible descendant of node.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil || IsHidden(node) {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// IsHidden reports whether an element is never displayed: <style> blocks and
// anything with an inline display:none.
func IsHidden(node *html.Node) bool {
	if node.Type != html.ElementNode {
		return false
	}
	if node.DataAtom == atom.Style {
		return true
	}
	style := strings.ReplaceAll(Attr(node, "style"), " ", "")
	return strings.Contains(style, "display:none")
}

func Attr(node *html.Node, key string) string {
	for _, a := range node.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

var innerWhitespace = regexp.MustCompile(`[\r\n]+|[\s\p{Zs}]{2,}`)

// CollapseWhitespace trims s and turns newline runs and runs of two or more
// whitespace characters into a single space.
func CollapseWhitespace(s string) string {
	return innerWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}
