// Package markdown normalises Markdown files into parsed documents.
//
// Headings build a breadcrumb trail attached to the sections beneath them.
// Pipe tables become table sections with their header row preserved;
// footnote definitions become footnote sections; everything else is prose
// with inline formatting stripped.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// breadcrumbSeparator joins nested heading levels.
const breadcrumbSeparator = " > "

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".md", ".markdown"}
}

var (
	headingRe     = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	tableRowRe    = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	tableRuleRe   = regexp.MustCompile(`^\s*\|?[\s:|-]+\|?\s*$`)
	footnoteRe    = regexp.MustCompile(`^\[\^([^\]]+)\]:\s*(.*)$`)
	inlineCodeRe  = regexp.MustCompile("`[^`]+`")
	imageRe       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkRe        = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	emphasisRe    = regexp.MustCompile(`(\*\*|__|\*|_)`)
	fenceRe       = regexp.MustCompile("^```")
	listMarkerRe  = regexp.MustCompile(`^\s*([-*+]|\d+\.)\s+`)
	blockquoteRe  = regexp.MustCompile(`^>\s*`)
	horizontalRe  = regexp.MustCompile(`^[-*_]{3,}\s*$`)
	multiSpacesRe = regexp.MustCompile(`\s+`)
)

// Normalise parses markdown into ordered sections.
func (n *Normaliser) Normalise(_ context.Context, sourcePath string, raw []byte) (*domain.ParsedDocument, error) {
	if sourcePath == "" {
		return nil, domain.ErrInvalidInput
	}

	doc := &domain.ParsedDocument{
		SourcePath: sourcePath,
		SourceType: "manual",
		RawHash:    domain.HashBytes(raw),
	}

	p := &parser{doc: doc}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		// Fenced code blocks are skipped wholesale; code rarely answers
		// documentation questions and pollutes the lexical index.
		if fenceRe.MatchString(strings.TrimSpace(line)) {
			p.flushProse()
			for i++; i < len(lines); i++ {
				if fenceRe.MatchString(strings.TrimSpace(lines[i])) {
					break
				}
			}
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			p.flushProse()
			p.setHeading(len(m[1]), stripInline(m[2]))
			continue
		}

		if m := footnoteRe.FindStringSubmatch(line); m != nil {
			p.flushProse()
			p.emitFootnote(stripInline(m[2]))
			continue
		}

		if tableRowRe.MatchString(line) {
			p.flushProse()
			i = p.consumeTable(lines, i)
			continue
		}

		if strings.TrimSpace(line) == "" || horizontalRe.MatchString(strings.TrimSpace(line)) {
			p.flushProse()
			continue
		}

		p.prose = append(p.prose, stripInline(line))
	}
	p.flushProse()

	return doc, nil
}

// parser accumulates sections while walking the line stream.
type parser struct {
	doc    *domain.ParsedDocument
	crumbs []string // one entry per heading level seen
	prose  []string
}

// setHeading records a heading at the given level, truncating any deeper
// breadcrumb entries.
func (p *parser) setHeading(level int, title string) {
	if level <= len(p.crumbs) {
		p.crumbs = p.crumbs[:level-1]
	}
	for len(p.crumbs) < level-1 {
		p.crumbs = append(p.crumbs, "")
	}
	p.crumbs = append(p.crumbs, title)
}

// breadcrumb renders the current heading trail.
func (p *parser) breadcrumb() string {
	parts := make([]string, 0, len(p.crumbs))
	for _, c := range p.crumbs {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, breadcrumbSeparator)
}

// flushProse emits accumulated prose lines as one section.
func (p *parser) flushProse() {
	if len(p.prose) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(p.prose, " "))
	p.prose = nil
	if text == "" {
		return
	}
	p.doc.Sections = append(p.doc.Sections, domain.Section{
		Text:        text,
		Heading:     p.breadcrumb(),
		ElementType: domain.ElementProse,
	})
}

// emitFootnote emits a footnote section.
func (p *parser) emitFootnote(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	p.doc.Sections = append(p.doc.Sections, domain.Section{
		Text:        text,
		Heading:     p.breadcrumb(),
		ElementType: domain.ElementFootnote,
	})
}

// consumeTable reads a pipe table starting at index i and emits a table
// section. Returns the index of the last table line.
func (p *parser) consumeTable(lines []string, i int) int {
	var rows [][]string
	last := i
	for ; i < len(lines); i++ {
		line := lines[i]
		if !tableRowRe.MatchString(line) {
			break
		}
		last = i
		if tableRuleRe.MatchString(line) {
			continue // separator row between header and body
		}
		rows = append(rows, splitTableRow(line))
	}

	if len(rows) == 0 {
		return last
	}

	section := domain.Section{
		Heading:     p.breadcrumb(),
		ElementType: domain.ElementTableRow,
		TableHeader: rows[0],
	}
	for _, row := range rows[1:] {
		section.Rows = append(section.Rows, strings.Join(row, " | "))
	}
	if len(section.Rows) > 0 {
		p.doc.Sections = append(p.doc.Sections, section)
	}
	return last
}

// splitTableRow splits a pipe table line into trimmed cells.
func splitTableRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cells = append(cells, stripInline(strings.TrimSpace(part)))
	}
	return cells
}

// stripInline removes inline markdown formatting from a single line.
func stripInline(line string) string {
	line = imageRe.ReplaceAllString(line, "")
	line = linkRe.ReplaceAllString(line, "$1")
	line = inlineCodeRe.ReplaceAllStringFunc(line, func(s string) string {
		return strings.Trim(s, "`")
	})
	line = emphasisRe.ReplaceAllString(line, "")
	line = listMarkerRe.ReplaceAllString(line, "")
	line = blockquoteRe.ReplaceAllString(line, "")
	return strings.TrimSpace(multiSpacesRe.ReplaceAllString(line, " "))
}
