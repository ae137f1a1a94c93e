package prompt

import (
	"fmt"
	"strings"

	"promptforge/internal/llm"
	"promptforge/internal/models"
)

// DefaultHistoryWindow is the number of prior turns framed into the prompt
// when the optimizer does not configure one.
const DefaultHistoryWindow = 10

// Framed is a single conversation encoded two ways: a flat prompt for
// backends that accept only one string, and a structured message list for
// chat-style backends. Both are derived from the same inputs.
type Framed struct {
	FlatPrompt string
	Messages   []llm.Message
}

// Frame linearizes a bounded window of history plus the new user input and
// optional attachment. Blank turns are dropped before the window is
// applied; recency wins, so the oldest excess turns are discarded.
func Frame(history []models.ConversationTurn, userInput string, attachment *models.Attachment, system string, window int) Framed {
	if window <= 0 {
		window = DefaultHistoryWindow
	}

	var kept []models.ConversationTurn
	for _, turn := range history {
		if strings.TrimSpace(turn.Content) != "" {
			kept = append(kept, turn)
		}
	}
	if len(kept) > window {
		kept = kept[len(kept)-window:]
	}

	attachmentBlock := ""
	if attachment != nil && strings.TrimSpace(attachment.Text) != "" {
		attachmentBlock = fmt.Sprintf("\n[Attached file: %s]\n%s\n", attachment.Name, TruncateAttachmentText(attachment.Text))
	}

	return Framed{
		FlatPrompt: flatPrompt(kept, userInput, attachmentBlock),
		Messages:   structuredMessages(kept, userInput, attachmentBlock, system),
	}
}

// flatPrompt renders the conversation as "User:/Assistant:" lines with a
// trailing continuation cue. With no history the raw input is used so
// single-turn prompts stay clean.
func flatPrompt(history []models.ConversationTurn, userInput, attachmentBlock string) string {
	if len(history) == 0 {
		return attachmentBlock + userInput
	}

	var lines []string
	for _, turn := range history {
		lines = append(lines, renderRole(turn.Role)+": "+turn.Content)
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines, "\n"))
	// The attachment block already ends with a newline
	if attachmentBlock != "" {
		b.WriteString(attachmentBlock)
		b.WriteString("User: ")
	} else {
		b.WriteString("\nUser: ")
	}
	b.WriteString(userInput)
	b.WriteString("\nAssistant:")
	return b.String()
}

// structuredMessages renders the same conversation as an ordered message
// list: system, attachment pseudo-message, history verbatim, final user turn.
func structuredMessages(history []models.ConversationTurn, userInput, attachmentBlock, system string) []llm.Message {
	var messages []llm.Message
	if system != "" {
		messages = append(messages, llm.Message{Role: models.RoleSystem, Content: system})
	}
	if attachmentBlock != "" {
		messages = append(messages, llm.Message{Role: models.RoleUser, Content: strings.TrimSpace(attachmentBlock)})
	}
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: models.RoleUser, Content: userInput})
	return messages
}

func renderRole(role string) string {
	if role == models.RoleAssistant {
		return "Assistant"
	}
	return "User"
}
