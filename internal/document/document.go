// Package document загружает исходные тексты комментариев и
// превращает их чанки в таблицу корпуса.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"commentary_enricher/internal/chunker"
	"commentary_enricher/internal/corpus"
)

// ColChunkIndex и ColSource - служебные колонки таблицы чанков
const (
	ColChunkIndex = "Chunk Index"
	ColSource     = "Source"
)

// Supported сообщает, умеем ли мы читать файл с таким расширением
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md", ".markdown", ".pdf":
		return true
	}
	return false
}

// Load возвращает текст документа
func Load(path string) (string, error) {
	if !Supported(path) {
		return "", fmt.Errorf("unsupported format: %s", filepath.Ext(path))
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return readPDF(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return b.String(), nil
}

// ToTable раскладывает чанки в таблицу: одна строка на чанк
func ToTable(chunks []chunker.Chunk) *corpus.Table {
	t := corpus.New(ColSource, corpus.ColTitle, ColChunkIndex, corpus.ColChunk)
	for i, ch := range chunks {
		t.Append([]string{ch.Source, ch.Section, strconv.Itoa(i + 1), ch.Text})
	}
	return t
}
