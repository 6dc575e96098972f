package optimizer

import "strings"

// Rule is one named anchor insertion. Markup is inserted immediately after the
// first occurrence of Anchor, but only when Present reports false for the
// document as it stands at that point of the pipeline.
type Rule struct {
	Name    string
	Anchor  string
	Present func(doc, keyword string) bool
	Markup  func(keyword string) string
}

const (
	RuleTitle            = "title"
	RuleMetaDescription  = "meta-description"
	RuleKeywordParagraph = "keyword-paragraph"
)

// DefaultRules is the fallback pipeline. Order matters: both head rules share
// the same anchor, so the description ends up above the title when both fire,
// and the keyword check sees whatever the head rules inserted.
var DefaultRules = []Rule{
	{
		Name:   RuleTitle,
		Anchor: "<head>",
		Present: func(doc, _ string) bool {
			return strings.Contains(doc, "<title>")
		},
		Markup: func(kw string) string {
			return "\n    <title>" + kw + " Rehberi 2025 - Kapsamlı Kılavuz</title>"
		},
	},
	{
		Name:   RuleMetaDescription,
		Anchor: "<head>",
		Present: func(doc, _ string) bool {
			return strings.Contains(doc, `name="description"`)
		},
		Markup: func(kw string) string {
			return "\n    " + `<meta name="description" content="` + kw +
				` konusunda kapsamlı rehber. 2025 güncel bilgiler ve uzman danışmanlık hizmetleri.">`
		},
	},
	{
		Name:   RuleKeywordParagraph,
		Anchor: "<p>",
		Present: func(doc, kw string) bool {
			return strings.Contains(strings.ToLower(doc), strings.ToLower(kw))
		},
		Markup: func(kw string) string {
			return kw + " konusunda "
		},
	},
}

// InsertAfterAnchor inserts text right after the first occurrence of anchor.
// It reports false and returns doc unchanged when the anchor is absent.
func InsertAfterAnchor(doc, anchor, text string) (string, bool) {
	i := strings.Index(doc, anchor)
	if i < 0 {
		return doc, false
	}
	at := i + len(anchor)
	return doc[:at] + text + doc[at:], true
}

// ApplyRules runs rules in order and returns the transformed document and the
// names of the rules that actually inserted something.
func ApplyRules(doc, keyword string, rules []Rule) (string, []string) {
	var applied []string
	for _, rule := range rules {
		if rule.Present(doc, keyword) {
			continue
		}
		next, ok := InsertAfterAnchor(doc, rule.Anchor, rule.Markup(keyword))
		if !ok {
			continue
		}
		doc = next
		applied = append(applied, rule.Name)
	}
	return doc, applied
}

// ApplyLocalHeuristics is the deterministic fallback transform.
func ApplyLocalHeuristics(html, keyword string) string {
	out, _ := ApplyRules(html, keyword, DefaultRules)
	return out
}
