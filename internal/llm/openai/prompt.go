package openai

import (
	"fmt"
	"strings"
)

// Message is one chat turn sent to the completions API.
type Message struct {
	Role    string
	Content string
}

const systemPrompt = `You answer questions about a single document.
Use only the document content provided. If the document does not contain
the answer, say so plainly. Answer concisely in plain text.`

// maxDocumentChars caps how much document text is sent per request.
const maxDocumentChars = 48_000

// BuildPrompt assembles the chat messages for one question.
func BuildPrompt(documentText, question string) []Message {
	doc := strings.TrimSpace(documentText)
	if len(doc) > maxDocumentChars {
		doc = doc[:maxDocumentChars]
	}
	user := fmt.Sprintf("Document:\n%s\n\nQuestion: %s", doc, strings.TrimSpace(question))
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
	}
}
