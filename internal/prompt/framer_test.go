package prompt

import (
	"strings"
	"testing"

	"promptforge/internal/models"
)

func turn(role, content string) models.ConversationTurn {
	return models.ConversationTurn{Role: role, Content: content}
}

func TestFrame_EmptyHistoryFlatPromptIsRawInput(t *testing.T) {
	framed := Frame(nil, "Write a slogan", nil, "system", 0)

	if framed.FlatPrompt != "Write a slogan" {
		t.Errorf("Expected raw input with no history, got %q", framed.FlatPrompt)
	}
}

func TestFrame_FlatPromptFormat(t *testing.T) {
	history := []models.ConversationTurn{
		turn(models.RoleUser, "Hi"),
		turn(models.RoleAssistant, "Hello! How can I help?"),
	}

	framed := Frame(history, "Write a slogan", nil, "system", 0)

	expected := "User: Hi\nAssistant: Hello! How can I help?\nUser: Write a slogan\nAssistant:"
	if framed.FlatPrompt != expected {
		t.Errorf("FlatPrompt = %q, want %q", framed.FlatPrompt, expected)
	}
}

func TestFrame_BlankTurnsDropped(t *testing.T) {
	history := []models.ConversationTurn{
		turn(models.RoleUser, "first"),
		turn(models.RoleAssistant, "   "),
		turn(models.RoleUser, ""),
		turn(models.RoleAssistant, "second"),
	}

	framed := Frame(history, "input", nil, "", 0)

	if strings.Count(framed.FlatPrompt, "\n") != 3 {
		t.Errorf("Expected 2 history lines plus final turn and cue, got %q", framed.FlatPrompt)
	}
	// messages: 2 history + final user (no system, no attachment)
	if len(framed.Messages) != 3 {
		t.Errorf("Expected 3 messages, got %d", len(framed.Messages))
	}
}

func TestFrame_WindowKeepsMostRecent(t *testing.T) {
	var history []models.ConversationTurn
	for i := 0; i < 20; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		history = append(history, turn(role, "turn-"+strings.Repeat("x", i+1)))
	}

	framed := Frame(history, "input", nil, "", 3)

	// only the last 3 turns survive
	if strings.Contains(framed.FlatPrompt, "turn-"+strings.Repeat("x", 17)+"\n") {
		t.Error("Turn outside the window leaked into the prompt")
	}
	for i := 17; i < 20; i++ {
		if !strings.Contains(framed.FlatPrompt, "turn-"+strings.Repeat("x", i+1)) {
			t.Errorf("Expected turn %d inside window", i)
		}
	}
	if len(framed.Messages) != 4 { // 3 history + final user
		t.Errorf("Expected 4 messages, got %d", len(framed.Messages))
	}
}

func TestFrame_WindowAppliedAfterBlankFilter(t *testing.T) {
	history := []models.ConversationTurn{
		turn(models.RoleUser, "keep-1"),
		turn(models.RoleAssistant, ""),
		turn(models.RoleUser, "keep-2"),
	}

	framed := Frame(history, "input", nil, "", 2)

	// The blank turn doesn't consume a window slot
	if !strings.Contains(framed.FlatPrompt, "keep-1") || !strings.Contains(framed.FlatPrompt, "keep-2") {
		t.Errorf("Expected both non-blank turns kept, got %q", framed.FlatPrompt)
	}
}

func TestFrame_AttachmentBlock(t *testing.T) {
	attachment := &models.Attachment{Name: "notes.txt", Text: "file contents here"}
	history := []models.ConversationTurn{turn(models.RoleUser, "Hi"), turn(models.RoleAssistant, "Hello")}

	framed := Frame(history, "Summarize the file", attachment, "sys", 0)

	if !strings.Contains(framed.FlatPrompt, "[Attached file: notes.txt]\nfile contents here") {
		t.Errorf("Expected attachment block in flat prompt, got %q", framed.FlatPrompt)
	}
	// Block sits between history and the final user turn
	idx := strings.Index(framed.FlatPrompt, "[Attached file:")
	finalIdx := strings.LastIndex(framed.FlatPrompt, "User: Summarize")
	if idx == -1 || finalIdx == -1 || idx > finalIdx {
		t.Errorf("Attachment block must precede the final user turn: %q", framed.FlatPrompt)
	}

	// Structured form: system, attachment pseudo-message, history, final user
	if len(framed.Messages) != 5 {
		t.Fatalf("Expected 5 messages, got %d", len(framed.Messages))
	}
	if framed.Messages[0].Role != models.RoleSystem {
		t.Errorf("Expected system message first, got %s", framed.Messages[0].Role)
	}
	if framed.Messages[1].Role != models.RoleUser || !strings.Contains(framed.Messages[1].Content, "[Attached file: notes.txt]") {
		t.Errorf("Expected attachment pseudo user message second, got %+v", framed.Messages[1])
	}
	if framed.Messages[4].Content != "Summarize the file" {
		t.Errorf("Expected final user turn last, got %+v", framed.Messages[4])
	}
}

func TestFrame_AttachmentFlatPromptExactRender(t *testing.T) {
	attachment := &models.Attachment{Name: "a.txt", Text: "data"}
	history := []models.ConversationTurn{
		turn(models.RoleUser, "Hi"),
		turn(models.RoleAssistant, "Hello"),
	}

	framed := Frame(history, "go", attachment, "", 0)

	expected := "User: Hi\nAssistant: Hello\n[Attached file: a.txt]\ndata\nUser: go\nAssistant:"
	if framed.FlatPrompt != expected {
		t.Errorf("FlatPrompt = %q, want %q", framed.FlatPrompt, expected)
	}
	if strings.Contains(framed.FlatPrompt, "\n\n") {
		t.Error("Attachment block must not introduce a blank line before the final turn")
	}
}

func TestFrame_AttachmentTextTruncated(t *testing.T) {
	attachment := &models.Attachment{Name: "big.txt", Text: strings.Repeat("z", AttachmentTextLimit+1000)}

	framed := Frame(nil, "input", attachment, "", 0)

	if strings.Contains(framed.FlatPrompt, strings.Repeat("z", AttachmentTextLimit+1)) {
		t.Error("Attachment text exceeded the truncation limit")
	}
	if !strings.Contains(framed.FlatPrompt, strings.Repeat("z", AttachmentTextLimit)) {
		t.Error("Expected exactly the truncated attachment text")
	}
}

func TestFrame_BlankAttachmentIgnored(t *testing.T) {
	attachment := &models.Attachment{Name: "empty.txt", Text: "   "}

	framed := Frame(nil, "input", attachment, "", 0)

	if framed.FlatPrompt != "input" {
		t.Errorf("Blank attachment must not produce a block, got %q", framed.FlatPrompt)
	}
	if len(framed.Messages) != 1 {
		t.Errorf("Expected only the user message, got %d", len(framed.Messages))
	}
}

func TestFrame_SingleTurnWithAttachment(t *testing.T) {
	attachment := &models.Attachment{Name: "a.txt", Text: "data"}

	framed := Frame(nil, "analyze", attachment, "", 0)

	expected := "\n[Attached file: a.txt]\ndata\nanalyze"
	if framed.FlatPrompt != expected {
		t.Errorf("FlatPrompt = %q, want %q", framed.FlatPrompt, expected)
	}
	// No trailing Assistant: cue without history
	if strings.HasSuffix(framed.FlatPrompt, "Assistant:") {
		t.Error("Single-turn prompt must not carry a continuation cue")
	}
}

func TestFrame_DefaultWindow(t *testing.T) {
	var history []models.ConversationTurn
	for i := 0; i < 30; i++ {
		history = append(history, turn(models.RoleUser, "msg"))
	}

	framed := Frame(history, "input", nil, "", 0)

	// default window 10 history turns + final user
	if len(framed.Messages) != DefaultHistoryWindow+1 {
		t.Errorf("Expected %d messages with default window, got %d", DefaultHistoryWindow+1, len(framed.Messages))
	}
}
