package translate

import (
	"strings"
	"testing"
)

func TestSanitizeAIText_RemovesInlineParenthesizedDisclaimer(t *testing.T) {
	in := "美國移民局宣布新的費用規則\n(Note: This translation is a machine translation and may contain errors. Always double-check with a reliable source.) 新規則將於下月生效。"
	out := SanitizeAIText(in)
	if out == "" {
		t.Fatalf("got empty output")
	}
	if containsFold(out, "note:") {
		t.Errorf("output still contains 'Note:' disclaimer: %q", out)
	}
	if !strings.Contains(out, "新規則將於下月生效") {
		t.Errorf("expected content preserved after disclaimer removal, got: %q", out)
	}
}

func TestSanitizeAIText_RemovesFullLineNote(t *testing.T) {
	in := "Note: This translation is a machine translation and may contain errors.\n美國移民局更新了庇護申請指引。"
	out := SanitizeAIText(in)
	if containsFold(out, "note:") {
		t.Errorf("disclaimer line was not removed: %q", out)
	}
	if out != "美國移民局更新了庇護申請指引。" {
		t.Errorf("expected content line to remain: %q", out)
	}
}

func TestSanitizeAIText_RemovesBracketedDisclaimer(t *testing.T) {
	in := "[Note: Machine translation] 這是一行測試文字。"
	out := SanitizeAIText(in)
	if containsFold(out, "note") {
		t.Errorf("bracketed disclaimer was not removed: %q", out)
	}
	if want := "這是一行測試文字。"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestSanitizeAIText_KeepsOrdinaryParentheses(t *testing.T) {
	in := "請填寫表格 (I-765) 並提交。"
	if out := SanitizeAIText(in); out != in {
		t.Errorf("got %q, want unchanged %q", out, in)
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
