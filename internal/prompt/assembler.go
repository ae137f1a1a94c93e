// Package prompt builds the system instruction and frames conversation
// history for the generation pipeline. Everything here is pure and
// deterministic; provider calls live in internal/llm.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"promptforge/internal/models"
)

// AttachmentTextLimit is the hard cap on attachment text embedded in a
// prompt. Longer text is truncated, never rejected.
const AttachmentTextLimit = 10000

const knowledgeBaseHeader = "\n\n--- KNOWLEDGE BASE ---\n"

const attachmentInstruction = "\n\nThe user may include the contents of an attached file in their message, " +
	"delimited by an [Attached file: <name>] marker. Treat the text that follows " +
	"the marker as the literal contents of that file when producing your answer."

// BuildSystem assembles the full system instruction: the optimizer's base
// prompt, a knowledge-base reference manifest, and (when an attachment is
// present) instructions for interpreting the inline file block. Knowledge
// entries are markers only; their contents are not fetched at generation
// time.
func BuildSystem(basePrompt string, knowledge []models.KnowledgeRef, hasAttachment bool) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	if len(knowledge) > 0 {
		b.WriteString(knowledgeBaseHeader)
		for i, kb := range knowledge {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "[Knowledge: %s]", kb.Name)
		}
	}

	if hasAttachment {
		b.WriteString(attachmentInstruction)
	}

	return b.String()
}

// TruncateAttachmentText applies the attachment cap. The limit counts
// characters, not bytes, and the cut lands on a rune boundary so multibyte
// text never yields invalid UTF-8. Truncation happens in exactly one place
// so both prompt encodings see the same text.
func TruncateAttachmentText(text string) string {
	if utf8.RuneCountInString(text) <= AttachmentTextLimit {
		return text
	}
	return string([]rune(text)[:AttachmentTextLimit])
}
