package chunker

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidArgument возвращается, когда параметры не дают конечной
// последовательности окон, покрывающей весь текст.
var ErrInvalidArgument = errors.New("invalid argument")

// Window - границы окна в словах, полуинтервал [Start, End)
type Window struct {
	Start int
	End   int
}

// Step проверяет параметры и возвращает сдвиг между началами соседних окон.
// overlap = floor(chunkSize * overlapRatio), step = chunkSize - overlap.
func Step(chunkSize int, overlapRatio float64) (int, error) {
	if chunkSize <= 0 {
		return 0, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidArgument, chunkSize)
	}
	if math.IsNaN(overlapRatio) || overlapRatio < 0 || overlapRatio >= 1 {
		return 0, fmt.Errorf("%w: overlap ratio must be in [0, 1), got %v", ErrInvalidArgument, overlapRatio)
	}

	overlap := int(math.Floor(float64(chunkSize) * overlapRatio))
	step := chunkSize - overlap
	if step <= 0 {
		return 0, fmt.Errorf("%w: overlap %d leaves no progress for chunk size %d", ErrInvalidArgument, overlap, chunkSize)
	}
	return step, nil
}

// Windows раскладывает n слов на окна по chunkSize со сдвигом step.
// Последнее окно может быть короче chunkSize.
func Windows(n, chunkSize, step int) []Window {
	if n <= 0 || chunkSize <= 0 || step <= 0 {
		return nil
	}

	// без переполнения при chunkSize и step около math.MaxInt
	windows := make([]Window, 0, (n-1)/step+1)
	for start := 0; start < n; start += step {
		end := start + min(chunkSize, n-start)
		windows = append(windows, Window{Start: start, End: end})
	}
	return windows
}

// Split разбивает text на слова и собирает из них перекрывающиеся окна
// по chunkSize слов. Слова внутри окна склеиваются одним пробелом.
//
// Пустой текст даёт пустой результат. Некорректные chunkSize/overlapRatio
// отклоняются с ErrInvalidArgument до токенизации.
func Split(text string, chunkSize int, overlapRatio float64) ([]string, error) {
	step, err := Step(chunkSize, overlapRatio)
	if err != nil {
		return nil, err
	}

	words := strings.Fields(text)
	windows := Windows(len(words), chunkSize, step)

	chunks := make([]string, 0, len(windows))
	for _, w := range windows {
		chunks = append(chunks, strings.Join(words[w.Start:w.End], " "))
	}
	return chunks, nil
}
