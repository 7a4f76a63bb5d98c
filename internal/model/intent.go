package model

// Intent is the classified purpose of a user turn.
type Intent string

const (
	IntentPlainText       Intent = "PlainText"
	IntentAudio           Intent = "Audio"
	IntentVideo           Intent = "Video"
	IntentImageGeneration Intent = "ImageGeneration"
	IntentImageDescribe   Intent = "ImageDescribe"
	IntentRAG             Intent = "RAG"
	IntentGreeting        Intent = "Greeting"
	IntentPPT             Intent = "PPT"
	IntentInternetSearch  Intent = "InternetSearch"
	IntentDocx            Intent = "Docx"
	IntentKnowledgeGraph  Intent = "KnowledgeGraph"
)

// AllIntents returns every declared intent in declaration order.
func AllIntents() []Intent {
	return []Intent{
		IntentPlainText,
		IntentAudio,
		IntentVideo,
		IntentImageGeneration,
		IntentImageDescribe,
		IntentRAG,
		IntentGreeting,
		IntentPPT,
		IntentInternetSearch,
		IntentDocx,
		IntentKnowledgeGraph,
	}
}

// Valid reports whether i is one of the declared intents.
func (i Intent) Valid() bool {
	for _, v := range AllIntents() {
		if v == i {
			return true
		}
	}
	return false
}

// Streams reports whether the handler for i answers with a chat stream.
func (i Intent) Streams() bool {
	switch i {
	case IntentPlainText, IntentRAG, IntentKnowledgeGraph, IntentGreeting, IntentInternetSearch:
		return true
	default:
		return false
	}
}

func (i Intent) String() string {
	return string(i)
}
