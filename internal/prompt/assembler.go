// Package prompt turns the ordered knowledge fragment list into the single
// bounded system instruction the assistant is primed with.
package prompt

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"unihelp/internal/model"
)

// PromptCap bounds each fragment's contribution to the system instruction.
// It is much smaller than the storage cap applied at extraction time; a
// fragment can be stored in full yet enter the prompt truncated.
const PromptCap = 2000

const truncationMarker = "\n[entry truncated for prompt length]"

const fragmentSeparator = "\n\n---\n\n"

const preamble = `You are UniHelp, the virtual assistant of the university support portal. ` +
	`You help students and faculty with questions about the university, its courses, ` +
	`schedules, grades, and administrative procedures. Answer in the language the ` +
	`user writes in, and keep answers short and concrete. If a question is too vague ` +
	`to answer (for example "help", "info", or a single word), do not guess: ask the ` +
	`user to rephrase with specifics, such as "How do I view my grades?" or ` +
	`"When does course registration open?".`

const knowledgeHeader = "Use the following knowledge base entries when they are relevant:"

// BuildSystemInstruction assembles the system instruction from fragments,
// which must already be ordered by ascending order key. It is a pure function
// of its input; callers recompute it when the knowledge base changes, not on
// every turn.
func BuildSystemInstruction(fragments []model.KnowledgeFragment) string {
	if len(fragments) == 0 {
		return preamble
	}

	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		parts = append(parts, TruncateForPrompt(f.Content))
	}
	return preamble + "\n\n" + knowledgeHeader + "\n\n" + strings.Join(parts, fragmentSeparator)
}

// TruncateForPrompt applies the prompt cap to a single fragment's content.
// Content at or under the cap passes through unchanged, so the operation is
// idempotent.
func TruncateForPrompt(content string) string {
	runes := []rune(content)
	if len(runes) <= PromptCap {
		return content
	}
	return string(runes[:PromptCap]) + truncationMarker
}

// Fingerprint derives a stable identity for the current knowledge base from
// the ordered fragment list. Any created, deleted, reordered, or edited
// fragment changes the fingerprint, which triggers a session re-seed.
func Fingerprint(fragments []model.KnowledgeFragment) string {
	h := sha256.New()
	for _, f := range fragments {
		fmt.Fprintf(h, "%d:%d;", f.ID, f.UpdatedAt.UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil))
}
