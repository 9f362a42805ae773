// Package vectors хранит эмбеддинги строк корпуса в chromem и ищет похожие.
package vectors

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/philippgille/chromem-go"

	"commentary_enricher/internal/corpus"
)

const collectionName = "commentary"

// OpenAIEmbedding - эмбеддинги через OpenAI-совместимый /embeddings
func OpenAIEmbedding(baseURL, apiKey, model string) chromem.EmbeddingFunc {
	return chromem.NewEmbeddingFuncOpenAICompat(strings.TrimSuffix(baseURL, "/"), apiKey, model, nil)
}

// Index - коллекция chromem с сохранением в файл
type Index struct {
	db     *chromem.DB
	coll   *chromem.Collection
	embed  chromem.EmbeddingFunc
	path   string
	logger *log.Logger
}

// Match - найденная строка корпуса
type Match struct {
	ID         string
	Key        string
	Row        int
	Content    string
	Similarity float32
}

// AddStats - итог индексации таблицы
type AddStats struct {
	Embedded int
	Failed   int
	Skipped  int
}

// Open создаёт индекс; если файл path существует - загружает его
func Open(embed chromem.EmbeddingFunc, path string, logger *log.Logger) (*Index, error) {
	if embed == nil {
		return nil, fmt.Errorf("embedding function is required")
	}
	if logger == nil {
		logger = log.Default()
	}

	ix := &Index{db: chromem.NewDB(), embed: embed, path: path, logger: logger}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			logger.Info("📂 loading vector index", "path", path)
			if err := ix.db.ImportFromFile(path, "", collectionName); err != nil {
				return nil, fmt.Errorf("failed to import vector index: %w", err)
			}
		}
	}

	coll, err := ix.db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection: %w", err)
	}
	ix.coll = coll
	return ix, nil
}

// Count - количество документов в индексе
func (ix *Index) Count() int {
	return ix.coll.Count()
}

// Save экспортирует коллекцию в сжатый файл
func (ix *Index) Save() error {
	if ix.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(ix.path), 0o755); err != nil {
		return err
	}
	if err := ix.db.ExportToFile(ix.path, true, "", collectionName); err != nil {
		return fmt.Errorf("failed to export vector index: %w", err)
	}
	ix.logger.Info("💾 vector index saved", "path", ix.path, "documents", ix.Count())
	return nil
}

// AddRows считает эмбеддинг textCol для каждой строки, кладёт его в индекс
// и в колонку Embedding (JSON-массив). keyCol, если задан, становится
// ID документа; иначе ID - номер строки. Ошибки отдельных строк не
// прерывают индексацию.
func (ix *Index) AddRows(ctx context.Context, t *corpus.Table, textCol, keyCol string) (AddStats, error) {
	var stats AddStats
	if _, err := t.Resolve(textCol); err != nil {
		return stats, err
	}
	t.EnsureColumn(corpus.ColEmbedding)

	for row := range t.Records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		text := strings.TrimSpace(t.Get(row, textCol))
		if text == "" {
			stats.Skipped++
			t.Set(row, corpus.ColEmbedding, "")
			continue
		}

		vec, err := ix.embed(ctx, text)
		if err != nil {
			ix.logger.Warn("⚠️ row failed to embed", "row", row+1, "err", err)
			stats.Failed++
			t.Set(row, corpus.ColEmbedding, "")
			continue
		}

		key := ""
		if keyCol != "" {
			key = t.Get(row, keyCol)
		}
		id := key
		if id == "" {
			id = "row-" + strconv.Itoa(row+1)
		}

		doc := chromem.Document{
			ID:        id,
			Content:   text,
			Embedding: vec,
			Metadata: map[string]string{
				"row": strconv.Itoa(row + 1),
				"key": key,
			},
		}
		if err := ix.coll.AddDocument(ctx, doc); err != nil {
			return stats, fmt.Errorf("add document %s: %w", id, err)
		}

		encoded, err := json.Marshal(vec)
		if err != nil {
			return stats, err
		}
		t.Set(row, corpus.ColEmbedding, string(encoded))
		stats.Embedded++
	}

	ix.logger.Info("✅ embeddings generated", "embedded", stats.Embedded, "failed", stats.Failed, "skipped", stats.Skipped)
	return stats, nil
}

// Search ищет до k ближайших строк с похожестью не ниже minSimilarity
func (ix *Index) Search(ctx context.Context, text string, k int, minSimilarity float32) ([]Match, error) {
	count := ix.Count()
	if count == 0 || k <= 0 {
		return nil, nil
	}

	results, err := ix.coll.Query(ctx, text, min(k, count), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	var matches []Match
	for _, r := range results {
		if r.Similarity < minSimilarity {
			continue
		}
		row, _ := strconv.Atoi(r.Metadata["row"])
		matches = append(matches, Match{
			ID:         r.ID,
			Key:        r.Metadata["key"],
			Row:        row,
			Content:    r.Content,
			Similarity: r.Similarity,
		})
	}
	return matches, nil
}
