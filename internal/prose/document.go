// Package prose renders a parsed ProViso program back into a legal-
// document outline, spec §4.M.
package prose

import (
	"fmt"
	"strings"

	"github.com/wch1125/proviso/ast"
)

// Subsection is one rendered statement: lettered (a), (b), (c) in
// source order within its section.
type Subsection struct {
	Letter      string
	ElementName string
	Body        string
}

// Section groups every statement of one kind within an article, under
// a fixed numeric prefix.
type Section struct {
	Number      string
	Title       string
	Subsections []Subsection
}

// Article is one of the fixed top-level buckets of spec §4.M's table.
// Empty articles (no statements of any of their kinds present) are
// omitted from the generated Document.
type Article struct {
	Number   int
	Title    string
	Sections []Section
}

// Document is the result of GenerateDocument.
type Document struct {
	Metadata map[string]string
	Articles []Article
	FullText string
}

// articleSpec is one row of spec §4.M's fixed table: which statement
// kinds, in which section order, belong to which article.
type articleSpec struct {
	number   int
	title    string
	sections []sectionSpec
}

type sectionSpec struct {
	number string
	title  string
	kind   string
}

var articleTable = []articleSpec{
	{1, "Definitions", []sectionSpec{{"1.01", "Defined Terms", "Define"}}},
	{4, "Conditions Precedent", []sectionSpec{{"4.01", "Closing Conditions", "ConditionsPrecedent"}}},
	{5, "Project Phases", []sectionSpec{{"5.01", "Phases", "Phase"}}},
	{6, "Construction Milestones", []sectionSpec{{"6.01", "Milestones", "Milestone"}}},
	{7, "Covenants", []sectionSpec{
		{"7.02", "Baskets", "Basket"},
		{"7.11", "Financial Covenants", "Covenant"},
	}},
	{9, "Reserve Accounts", []sectionSpec{{"9.01", "Reserves", "Reserve"}}},
	{10, "Cash Waterfalls", []sectionSpec{{"10.01", "Distribution Waterfalls", "Waterfall"}}},
}

// bucket groups a program's statements by their Go type name, source
// order preserved.
func bucket(program *ast.Program) map[string][]ast.Statement {
	out := map[string][]ast.Statement{}
	for _, stmt := range program.Statements {
		kind := kindOf(stmt)
		out[kind] = append(out[kind], stmt)
	}
	return out
}

func kindOf(stmt ast.Statement) string {
	switch stmt.(type) {
	case *ast.Define:
		return "Define"
	case *ast.ConditionsPrecedent:
		return "ConditionsPrecedent"
	case *ast.Phase:
		return "Phase"
	case *ast.Milestone:
		return "Milestone"
	case *ast.Basket:
		return "Basket"
	case *ast.Covenant:
		return "Covenant"
	case *ast.Reserve:
		return "Reserve"
	case *ast.Waterfall:
		return "Waterfall"
	default:
		return ""
	}
}

func letter(i int) string {
	// (a), (b), ... (z), (aa), (ab), ... — source files name far fewer
	// than 26 statements of one kind in practice, but wrap cleanly.
	s := ""
	for {
		s = string(rune('a'+i%26)) + s
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	return s
}

// GenerateDocument walks program once, grouping statements into the
// fixed article/section buckets of spec §4.M and rendering each
// statement with its dedicated table-driven formatter.
func GenerateDocument(program *ast.Program, metadata map[string]string) (Document, error) {
	grouped := bucket(program)

	doc := Document{Metadata: metadata}
	var fullText strings.Builder

	for _, aSpec := range articleTable {
		article := Article{Number: aSpec.number, Title: aSpec.title}
		for _, sSpec := range aSpec.sections {
			stmts := grouped[sSpec.kind]
			if len(stmts) == 0 {
				continue
			}
			section := Section{Number: sSpec.number, Title: sSpec.title}
			for i, stmt := range stmts {
				name, body, err := renderStatement(stmt)
				if err != nil {
					return Document{}, err
				}
				section.Subsections = append(section.Subsections, Subsection{
					Letter:      letter(i),
					ElementName: name,
					Body:        body,
				})
			}
			article.Sections = append(article.Sections, section)
		}
		if len(article.Sections) == 0 {
			continue
		}
		doc.Articles = append(doc.Articles, article)
	}

	for _, article := range doc.Articles {
		fmt.Fprintf(&fullText, "ARTICLE %d. %s\n\n", article.Number, article.Title)
		for _, section := range article.Sections {
			fmt.Fprintf(&fullText, "Section %s %s\n\n", section.Number, section.Title)
			for _, sub := range section.Subsections {
				fmt.Fprintf(&fullText, "(%s) %s\n\n", sub.Letter, sub.Body)
			}
		}
	}
	doc.FullText = fullText.String()

	return doc, nil
}

// renderStatement is the per-kind table-driven formatter: it must
// produce a byte-stable prose paragraph for a given AST node, plus the
// elementName redlines index sections by.
func renderStatement(stmt ast.Statement) (elementName, body string, err error) {
	switch s := stmt.(type) {
	case *ast.Define:
		return s.Name, renderDefine(s), nil
	case *ast.ConditionsPrecedent:
		return s.Name, renderConditionsPrecedent(s), nil
	case *ast.Phase:
		return s.Name, renderPhase(s), nil
	case *ast.Milestone:
		return s.Name, renderMilestone(s), nil
	case *ast.Basket:
		return s.Name, renderBasket(s), nil
	case *ast.Covenant:
		return s.Name, renderCovenant(s), nil
	case *ast.Reserve:
		return s.Name, renderReserve(s), nil
	case *ast.Waterfall:
		return s.Name, renderWaterfall(s), nil
	default:
		return "", "", fmt.Errorf("prose: no renderer for statement type %T", stmt)
	}
}
