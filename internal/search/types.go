package search

import (
	"strings"

	"cyber-doctor/pkg/llmprovider"
)

// Output is the result of one InternetSearch turn.
type Output struct {
	Stream     llmprovider.Stream
	Links      map[string]string // URL -> title
	HadResults bool
	CacheDir   string
	Workers    int
}

// Document is a retrieved piece of text.
type Document struct {
	Source  string
	Content string
	Score   float64
}

// DocumentSeparator joins documents into a context blob.
const DocumentSeparator = "\n-------------分割线--------------\n"

// JoinDocuments concatenates document contents with DocumentSeparator.
func JoinDocuments(docs []Document) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Content
	}
	return strings.Join(parts, DocumentSeparator)
}
