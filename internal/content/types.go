package content

// Kind is the type of document to generate.
type Kind string

const (
	KindPPT  Kind = "ppt"
	KindDocx Kind = "docx"
)

// Deck is a PPT outline.
type Deck struct {
	Title string `json:"title"`
	Pages []Page `json:"pages"`
}

// Page is one content slide.
type Page struct {
	Title   string  `json:"title"`
	Content []Point `json:"content"`
}

// Point is a titled bullet on a slide.
type Point struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Document is a Word outline.
type Document struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Section is a level-1 heading with its paragraphs.
type Section struct {
	Heading    string      `json:"heading"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Paragraph is a level-2 heading with body text.
type Paragraph struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}
