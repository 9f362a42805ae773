package chunker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownChunker делит markdown по заголовкам, а каждую секцию - на окна по словам
type MarkdownChunker struct {
	words  *TextChunker
	logger *log.Logger
}

// NewMarkdownChunker создаёт новый markdown chunker
func NewMarkdownChunker(config Config, logger *log.Logger) *MarkdownChunker {
	if logger == nil {
		logger = log.Default()
	}
	return &MarkdownChunker{
		words:  NewTextChunker(config, logger),
		logger: logger,
	}
}

func (m *MarkdownChunker) Name() string {
	return "markdown"
}

// DocumentStructure содержит информацию о структуре документа
type DocumentStructure struct {
	HeadingCounts   map[int]int // уровень заголовка -> количество
	TotalParagraphs int
}

// minHeadings - сколько заголовков уровня нужно, чтобы резать по нему
var minHeadings = map[int]int{
	1: 2,  // главы
	2: 3,  // статьи
	3: 5,  // подразделы
	4: 10, // мелкие пункты
}

// section - текст под одним заголовком
type section struct {
	title string
	level int
	body  strings.Builder
}

func (m *MarkdownChunker) Chunk(content, source string) ([]Chunk, error) {
	src := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	structure := m.analyzeStructure(doc)
	level, err := m.selectLevel(structure)
	if err != nil {
		// Явно возвращаем ошибку - вызывающий код откатится на TextChunker
		return nil, fmt.Errorf("markdown chunker cannot process this content: %w", err)
	}

	m.logger.Debug("📊 document structure", "chunker", m.Name(),
		"headings", structure.HeadingCounts, "paragraphs", structure.TotalParagraphs)
	m.logger.Debug("🎯 selected heading level", "chunker", m.Name(), "level", level)

	var chunks []Chunk
	for i, s := range m.collectSections(doc, src, level) {
		base := map[string]string{
			"section_num": strconv.Itoa(i + 1),
			"level":       strconv.Itoa(s.level),
		}
		sectionChunks, err := m.words.chunkSection(s.body.String(), source, s.title, base)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, sectionChunks...)
	}

	m.logger.Info("✅ created chunks", "chunker", m.Name(), "source", source, "count", len(chunks))
	return chunks, nil
}

// analyzeStructure считает заголовки по уровням и параграфы
func (m *MarkdownChunker) analyzeStructure(doc ast.Node) DocumentStructure {
	structure := DocumentStructure{
		HeadingCounts: make(map[int]int),
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			structure.HeadingCounts[node.Level]++
		case *ast.Paragraph:
			structure.TotalParagraphs++
		}
		return ast.WalkContinue, nil
	})

	return structure
}

// selectLevel выбирает самый крупный уровень заголовков, которых достаточно много
func (m *MarkdownChunker) selectLevel(structure DocumentStructure) (int, error) {
	for level := 1; level <= 4; level++ {
		if structure.HeadingCounts[level] >= minHeadings[level] {
			return level, nil
		}
	}

	return 0, fmt.Errorf(
		"no suitable markdown structure found (headings: %v, paragraphs: %d)",
		structure.HeadingCounts, structure.TotalParagraphs,
	)
}

// collectSections собирает текст под заголовками уровня targetLevel и выше.
// Подзаголовки остаются внутри текущей секции.
func (m *MarkdownChunker) collectSections(doc ast.Node, src []byte, targetLevel int) []*section {
	var sections []*section
	current := &section{}

	flush := func() {
		if strings.TrimSpace(current.body.String()) != "" {
			sections = append(sections, current)
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			if !entering {
				return ast.WalkContinue, nil
			}
			title := nodeText(node, src)
			if node.Level <= targetLevel {
				flush()
				current = &section{title: title, level: node.Level}
			} else {
				current.body.WriteString("\n" + title + "\n\n")
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				current.body.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					current.body.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				current.body.Write(node.Value)
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					current.body.Write(seg.Value(src))
				}
				current.body.WriteString("\n")
			}
		case *ast.Paragraph:
			if !entering {
				current.body.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})
	flush()

	return sections
}

// nodeText собирает текст всех потомков узла
func nodeText(node ast.Node, src []byte) string {
	var buf strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
