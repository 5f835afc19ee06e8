package kutschera

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// ParseDay extracts the bookable start times from a wochentag.php fragment.
// Bookable slots are buttons whose onclick calls buchen, or div.aviable
// elements reading "10:00 bis 10:30".
func ParseDay(fragment string) []string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			var text string
			switch {
			case n.Data == "button" && strings.Contains(attr(n, "onclick"), "buchen"):
				text = textOf(n)
			case n.Data == "div" && hasClass(n, "aviable"):
				text, _, _ = strings.Cut(textOf(n), " bis ")
			}
			if clock := firstField(text); clockPattern.MatchString(clock) {
				out = append(out, clock)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(b.String())
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
