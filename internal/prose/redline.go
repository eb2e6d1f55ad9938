package prose

import (
	"fmt"
	"strings"

	"github.com/wch1125/proviso/parser"
)

// ModifiedSection pairs an old and new rendering of the same element
// name across two document revisions.
type ModifiedSection struct {
	ElementName string
	Old         string
	New         string
}

// Redline is the result of GenerateRedline: sections present in only
// one revision, and sections present in both with different rendered
// content. Equality is by rendered content string, spec §4.M.
type Redline struct {
	Added    []Subsection
	Removed  []Subsection
	Modified []ModifiedSection
	Body     string
}

// indexByElementName flattens a Document's subsections into a lookup
// keyed by elementName, spec §4.M.
func indexByElementName(doc Document) map[string]Subsection {
	out := map[string]Subsection{}
	for _, article := range doc.Articles {
		for _, section := range article.Sections {
			for _, sub := range section.Subsections {
				out[sub.ElementName] = sub
			}
		}
	}
	return out
}

// GenerateRedline parses oldSrc and newSrc, renders both to documents,
// and diffs them by elementName, spec §4.M.
func GenerateRedline(oldSrc, newSrc string) (Redline, error) {
	oldProgram, err := parser.Parse(oldSrc)
	if err != nil {
		return Redline{}, fmt.Errorf("redline: parse old source: %w", err)
	}
	newProgram, err := parser.Parse(newSrc)
	if err != nil {
		return Redline{}, fmt.Errorf("redline: parse new source: %w", err)
	}

	oldDoc, err := GenerateDocument(oldProgram, nil)
	if err != nil {
		return Redline{}, fmt.Errorf("redline: render old source: %w", err)
	}
	newDoc, err := GenerateDocument(newProgram, nil)
	if err != nil {
		return Redline{}, fmt.Errorf("redline: render new source: %w", err)
	}

	oldIndex := indexByElementName(oldDoc)
	newIndex := indexByElementName(newDoc)

	var redline Redline
	var body strings.Builder

	for name, newSub := range newIndex {
		oldSub, existed := oldIndex[name]
		switch {
		case !existed:
			redline.Added = append(redline.Added, newSub)
			fmt.Fprintf(&body, "[+] %s: %s\n", name, newSub.Body)
		case oldSub.Body != newSub.Body:
			redline.Modified = append(redline.Modified, ModifiedSection{ElementName: name, Old: oldSub.Body, New: newSub.Body})
			fmt.Fprintf(&body, "[~] %s:\n    - %s\n    + %s\n", name, oldSub.Body, newSub.Body)
		}
	}
	for name, oldSub := range oldIndex {
		if _, stillPresent := newIndex[name]; !stillPresent {
			redline.Removed = append(redline.Removed, oldSub)
			fmt.Fprintf(&body, "[-] %s: %s\n", name, oldSub.Body)
		}
	}

	redline.Body = body.String()
	return redline, nil
}
