package patch

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/andbeder/PurpleFox/internal/chart"
)

// element is one tag of the component template with its byte range in the
// source. Component templates use attribute syntax (onclick={handler}) an
// HTML tree builder would normalize, so edits splice the original bytes.
type element struct {
	tag      string
	attrs    map[string]string
	start    int // offset of '<' of the start tag
	innerEnd int // offset of the end tag
	end      int // offset just past the end tag
	parent   *element
	children []*element
}

func (e *element) classes() []string {
	return strings.Fields(e.attrs["class"])
}

func (e *element) walk(fn func(*element) bool) {
	for _, c := range e.children {
		if fn(c) {
			c.walk(fn)
		}
	}
}

func (e *element) hasAncestor(tag string) bool {
	for p := e.parent; p != nil; p = p.parent {
		if p.tag == tag {
			return true
		}
	}
	return false
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// parseMarkup builds the element tree of src. The returned root spans the
// whole document.
func parseMarkup(src string) (*element, error) {
	root := &element{start: 0, innerEnd: len(src), end: len(src)}
	stack := []*element{root}
	z := html.NewTokenizer(strings.NewReader(src))
	offset := 0

	for {
		tt := z.Next()
		tokStart := offset
		offset += len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				for _, open := range stack[1:] {
					open.innerEnd, open.end = len(src), len(src)
				}
				return root, nil
			}
			return nil, fmt.Errorf("%w: reading markup: %v", chart.ErrMalformedInput, z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			el := &element{
				tag:    string(name),
				attrs:  make(map[string]string),
				start:  tokStart,
				parent: stack[len(stack)-1],
			}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				el.attrs[string(k)] = string(v)
			}
			el.parent.children = append(el.parent.children, el)
			if tt == html.SelfClosingTagToken || voidElements[el.tag] {
				el.innerEnd, el.end = offset, offset
				continue
			}
			stack = append(stack, el)

		case html.EndTagToken:
			name, _ := z.TagName()
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].tag != string(name) {
					continue
				}
				// Elements left open inside the closed one end here.
				for _, open := range stack[i+1:] {
					open.innerEnd, open.end = tokStart, tokStart
				}
				stack[i].innerEnd, stack[i].end = tokStart, offset
				stack = stack[:i]
				break
			}
		}
	}
}

// navList returns the navigation <ul>, recognized by its slds-list_dotted
// class.
func navList(root *element) *element {
	var found *element
	root.walk(func(e *element) bool {
		if found == nil && e.tag == "ul" && slices.Contains(e.classes(), "slds-list_dotted") {
			found = e
		}
		return found == nil
	})
	return found
}

// layoutContainer returns the last <lightning-layout-item> that is not
// nested in another one.
func layoutContainer(root *element) *element {
	var found *element
	root.walk(func(e *element) bool {
		if e.tag == "lightning-layout-item" {
			found = e
			return false
		}
		return true
	})
	return found
}

// chartElements returns the outermost elements belonging to chart id: pages
// and nav links tagged with its id, the <li> wrapping such a link, and
// containers whose first class names the chart.
func chartElements(root *element, id string) []*element {
	names := []string{id}
	if pascal := chart.PascalID(id); pascal != id {
		names = append(names, pascal)
	}
	classNames := []string{"chart-" + id}
	for _, n := range names {
		classNames = append(classNames, n, n+"AO")
	}

	var out []*element
	root.walk(func(e *element) bool {
		match := slices.Contains(names, e.attrs["data-id"]) || slices.Contains(names, e.attrs["data-page"])
		if cls := e.classes(); len(cls) > 0 && slices.Contains(classNames, cls[0]) {
			match = true
		}
		if !match {
			return true
		}
		if e.parent != nil && e.parent.tag == "li" && len(e.parent.children) == 1 {
			e = e.parent
		}
		if len(out) == 0 || out[len(out)-1] != e {
			out = append(out, e)
		}
		return false
	})
	return out
}

// PatchMarkup applies add and remove changes to the component template.
// Updates do not touch the markup.
func PatchMarkup(src string, changes []chart.Change) (string, error) {
	for _, c := range changes {
		var err error
		switch c.Action {
		case chart.ActionRemove:
			src, err = removeChart(src, c.ChartID)
		case chart.ActionAdd:
			src, err = addChart(src, c.ChartID)
		}
		if err != nil {
			return "", fmt.Errorf("chart %s: %w", c.ChartID, err)
		}
	}
	return src, nil
}

func removeChart(src, id string) (string, error) {
	root, err := parseMarkup(src)
	if err != nil {
		return "", err
	}
	els := chartElements(root, id)
	sort.Slice(els, func(i, j int) bool { return els[i].start > els[j].start })
	for _, e := range els {
		from, to := lineExtent(src, e.start, e.end)
		src = src[:from] + src[to:]
	}
	return src, nil
}

func addChart(src, id string) (string, error) {
	pascal := chart.PascalID(id)

	root, err := parseMarkup(src)
	if err != nil {
		return "", err
	}
	exists := false
	root.walk(func(e *element) bool {
		if e.attrs["data-page"] == pascal {
			exists = true
		}
		return !exists
	})
	if exists {
		return src, nil
	}

	nav := navList(root)
	if nav == nil {
		return "", fmt.Errorf("%w: navigation list (ul.slds-list_dotted)", chart.ErrPatchTargetNotFound)
	}
	src = insertChild(src, nav, navBlock(pascal))

	// Offsets moved; locate the container in the updated document.
	root, err = parseMarkup(src)
	if err != nil {
		return "", err
	}
	container := layoutContainer(root)
	if container == nil {
		return "", fmt.Errorf("%w: layout container (lightning-layout-item)", chart.ErrPatchTargetNotFound)
	}
	return insertChild(src, container, pageBlock(pascal)), nil
}

func navBlock(pascal string) []string {
	return []string{
		`<li>`,
		fmt.Sprintf(`  <a href="javascript:void(0);" data-id="%s" onclick={handleNavClick}>%s</a>`, pascal, pascal),
		`</li>`,
	}
}

func pageBlock(pascal string) []string {
	return []string{
		fmt.Sprintf(`<div data-page="%s">`, pascal),
		`  <lightning-card title="Chart Series" icon-name="custom:custom1">`,
		`    <lightning-layout>`,
		`      <lightning-layout-item size="6">`,
		fmt.Sprintf(`        <div class="%s slds-var-m-around_medium" lwc:dom="manual"></div>`, pascal),
		`      </lightning-layout-item>`,
		`      <lightning-layout-item size="6">`,
		fmt.Sprintf(`        <div class="%sAO slds-var-m-around_medium" lwc:dom="manual"></div>`, pascal),
		`      </lightning-layout-item>`,
		`    </lightning-layout>`,
		`  </lightning-card>`,
		`</div>`,
	}
}

// insertChild appends lines as the last child of parent, indented one level
// deeper than the parent's start tag.
func insertChild(src string, parent *element, lines []string) string {
	indent := lineIndent(src, parent.start)
	child := indent + "  "

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(child)
		b.WriteString(l)
		b.WriteByte('\n')
	}
	block := b.String()

	at := parent.innerEnd
	ls := lineStart(src, at)
	if strings.TrimSpace(src[ls:at]) == "" {
		return src[:ls] + block + src[ls:]
	}
	return src[:at] + "\n" + block + indent + src[at:]
}

// lineExtent widens [from, to) to whole lines when nothing but whitespace
// shares those lines.
func lineExtent(src string, from, to int) (int, int) {
	ls := lineStart(src, from)
	if strings.TrimSpace(src[ls:from]) != "" {
		return from, to
	}
	le := strings.IndexByte(src[to:], '\n')
	if le < 0 {
		le = len(src) - to
	} else {
		le++
	}
	if strings.TrimSpace(src[to:to+le]) != "" {
		return from, to
	}
	return ls, to + le
}

func lineStart(src string, at int) int {
	return strings.LastIndexByte(src[:at], '\n') + 1
}

func lineIndent(src string, at int) string {
	line := src[lineStart(src, at):at]
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
