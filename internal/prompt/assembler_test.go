package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"promptforge/internal/models"
)

func TestBuildSystem_BasePromptOnly(t *testing.T) {
	system := BuildSystem("You are a marketing copywriter.", nil, false)

	if system != "You are a marketing copywriter." {
		t.Errorf("Expected bare base prompt, got %q", system)
	}
}

func TestBuildSystem_KnowledgeManifest(t *testing.T) {
	knowledge := []models.KnowledgeRef{
		{ID: "kb-1", Name: "Brand Guidelines"},
		{ID: "kb-2", Name: "Tone of Voice"},
	}

	system := BuildSystem("Base.", knowledge, false)

	if !strings.Contains(system, "--- KNOWLEDGE BASE ---") {
		t.Error("Expected knowledge base header")
	}
	if !strings.Contains(system, "[Knowledge: Brand Guidelines]") {
		t.Error("Expected first knowledge marker")
	}
	if !strings.Contains(system, "[Knowledge: Tone of Voice]") {
		t.Error("Expected second knowledge marker")
	}
	if !strings.HasPrefix(system, "Base.") {
		t.Error("Expected base prompt first")
	}

	// Markers reference entries by name only, contents are never inlined
	if strings.Contains(system, "kb-1") {
		t.Error("Knowledge IDs must not leak into the system prompt")
	}
}

func TestBuildSystem_AttachmentInstruction(t *testing.T) {
	withAttachment := BuildSystem("Base.", nil, true)
	withoutAttachment := BuildSystem("Base.", nil, false)

	if !strings.Contains(withAttachment, "[Attached file: <name>]") {
		t.Error("Expected attachment handling instruction")
	}
	if strings.Contains(withoutAttachment, "Attached file") {
		t.Error("Attachment instruction must be absent without an attachment")
	}
}

func TestTruncateAttachmentText(t *testing.T) {
	short := "hello"
	if got := TruncateAttachmentText(short); got != short {
		t.Errorf("Short text must pass through, got %q", got)
	}

	exact := strings.Repeat("a", AttachmentTextLimit)
	if got := TruncateAttachmentText(exact); len(got) != AttachmentTextLimit {
		t.Errorf("Text at the limit must not shrink, got %d chars", len(got))
	}

	long := strings.Repeat("b", AttachmentTextLimit+500)
	got := TruncateAttachmentText(long)
	if len(got) != AttachmentTextLimit {
		t.Errorf("Expected truncation to %d chars, got %d", AttachmentTextLimit, len(got))
	}
}

func TestTruncateAttachmentText_Multibyte(t *testing.T) {
	// 9000 three-byte runes: 27000 bytes but well under the character cap
	under := strings.Repeat("あ", 9000)
	if got := TruncateAttachmentText(under); got != under {
		t.Errorf("Multibyte text under the cap must pass through, got %d runes", utf8.RuneCountInString(got))
	}

	over := strings.Repeat("あ", AttachmentTextLimit+50)
	got := TruncateAttachmentText(over)
	if n := utf8.RuneCountInString(got); n != AttachmentTextLimit {
		t.Errorf("Expected truncation to %d runes, got %d", AttachmentTextLimit, n)
	}
	if !utf8.ValidString(got) {
		t.Error("Truncation must never split a rune")
	}
}
