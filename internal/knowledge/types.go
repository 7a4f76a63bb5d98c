package knowledge

// IndexOutput summarizes an indexing run.
type IndexOutput struct {
	Files   int
	Chunks  int
	Skipped []string // files that could not be read or were empty
}

// Chunk is one piece of a knowledge file.
type Chunk struct {
	Source string
	Index  int
	Text   string
}
