package prompts

// GroupData - поля группы комментариев для шаблонов group/outline/combined
type GroupData struct {
	Verses      string
	Translation string
	Commentary  string
	Fields      []string
	Hints       map[string]string
}

// SplitData - кусок комментария для тематического разбиения
type SplitData struct {
	Commentary string
	MinWords   int
	MaxWords   int
	Part       int
	Parts      int
}

type ChapterData struct {
	Title string
}

type ChunkData struct {
	Chunk string
}

type CompareData struct {
	Texts []string
}
