package prose

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wch1125/proviso/parser"
)

func mustDoc(t *testing.T, src string) Document {
	t.Helper()
	program, err := parser.Parse(src)
	require.NoError(t, err)
	doc, err := GenerateDocument(program, map[string]string{"title": "Test Agreement"})
	require.NoError(t, err)
	return doc
}

func TestGenerateDocumentOrdersArticlesByFixedTable(t *testing.T) {
	src := `
WATERFALL CashFlow
  TIER PRIORITY 1 PAY $100
DEFINE Leverage = TotalDebt / EBITDA
COVENANT MaxLeverage
  REQUIRES Leverage <= 5.00
`
	doc := mustDoc(t, src)
	require.Len(t, doc.Articles, 3)
	require.Equal(t, 1, doc.Articles[0].Number)
	require.Equal(t, "Definitions", doc.Articles[0].Title)
	require.Equal(t, 7, doc.Articles[1].Number)
	require.Equal(t, "Covenants", doc.Articles[1].Title)
	require.Equal(t, 10, doc.Articles[2].Number)
	require.Equal(t, "Cash Waterfalls", doc.Articles[2].Title)
}

func TestGenerateDocumentOmitsEmptyArticles(t *testing.T) {
	doc := mustDoc(t, `DEFINE Leverage = TotalDebt / EBITDA`)
	require.Len(t, doc.Articles, 1)
	require.Equal(t, "Definitions", doc.Articles[0].Title)
}

func TestGenerateDocumentLettersSubsectionsInSourceOrder(t *testing.T) {
	doc := mustDoc(t, `
BASKET First CAPACITY $1_000_000
BASKET Second CAPACITY $2_000_000
`)
	basketsSection := doc.Articles[0].Sections[0]
	require.Equal(t, "7.02", basketsSection.Number)
	require.Equal(t, "a", basketsSection.Subsections[0].Letter)
	require.Equal(t, "First", basketsSection.Subsections[0].ElementName)
	require.Equal(t, "b", basketsSection.Subsections[1].Letter)
	require.Equal(t, "Second", basketsSection.Subsections[1].ElementName)
}

func TestRenderDefineIncludesModifiers(t *testing.T) {
	doc := mustDoc(t, `DEFINE Leverage = TotalDebt / EBITDA EXCLUDING [Subdebt] CAP 6.00`)
	body := doc.Articles[0].Sections[0].Subsections[0].Body
	require.Contains(t, body, `"Leverage" means TotalDebt / EBITDA`)
	require.Contains(t, body, "excludes Subdebt")
	require.Contains(t, body, "shall not exceed 6")
}

func TestRenderCovenantIncludesTestedAndCure(t *testing.T) {
	doc := mustDoc(t, `
COVENANT MaxLeverage
  REQUIRES Leverage <= 5.00
  TESTED QUARTERLY
  CURE EquityCure MAX_USES 2 OVER "rolling 4 quarters" MAX_AMOUNT $10_000_000
`)
	body := doc.Articles[0].Sections[0].Subsections[0].Body
	require.Contains(t, body, `maintain "MaxLeverage"`)
	require.Contains(t, body, "Compliance is tested quarterly")
	require.Contains(t, body, "may be cured by EquityCure")
	require.Contains(t, body, "not more than 2 time(s)")
}

func TestRenderWaterfallNumbersTiersByPriority(t *testing.T) {
	doc := mustDoc(t, `
WATERFALL CashFlow
  TIER PRIORITY 1 PAY $400_000
  TIER PRIORITY 2 PAY_TO DebtServiceReserve UNTIL $1_000_000
`)
	body := doc.Articles[0].Sections[0].Subsections[0].Body
	require.Contains(t, body, "(1) pay $400,000")
	require.Contains(t, body, "(2) fund DebtServiceReserve until $1,000,000")
}

func TestGenerateDocumentFullTextIncludesArticleHeaders(t *testing.T) {
	doc := mustDoc(t, `DEFINE Leverage = TotalDebt / EBITDA`)
	require.Contains(t, doc.FullText, "ARTICLE 1. Definitions")
	require.Contains(t, doc.FullText, "Section 1.01 Defined Terms")
	require.Contains(t, doc.FullText, "(a)")
}
