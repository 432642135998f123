package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unihelp/internal/model"
)

func TestBuildSystemInstructionEmptyKnowledgeBase(t *testing.T) {
	out := BuildSystemInstruction(nil)
	assert.Equal(t, preamble, out)
	assert.NotContains(t, out, knowledgeHeader)
}

func TestBuildSystemInstructionCapsLongFragments(t *testing.T) {
	shortContent := strings.Repeat("a", 50)
	longContent := strings.Repeat("b", 3000)
	fragments := []model.KnowledgeFragment{
		{ID: 1, OrderKey: 1, Title: "A", Content: shortContent},
		{ID: 2, OrderKey: 2, Title: "B", Content: longContent},
	}

	out := BuildSystemInstruction(fragments)

	assert.Contains(t, out, shortContent)
	assert.Contains(t, out, strings.Repeat("b", PromptCap)+truncationMarker)
	assert.NotContains(t, out, strings.Repeat("b", PromptCap+1))
}

func TestTruncateForPromptIdempotent(t *testing.T) {
	long := strings.Repeat("x", PromptCap+100)
	once := TruncateForPrompt(long)
	twice := TruncateForPrompt(once)
	// The capped text plus marker is over the cap in raw length yet must not
	// be cut again; the marker may appear exactly once.
	assert.NotEqual(t, long, once)
	assert.Equal(t, once, twice)
	assert.Equal(t, 1, strings.Count(twice, truncationMarker))

	atCap := strings.Repeat("x", PromptCap)
	assert.Equal(t, atCap, TruncateForPrompt(atCap))
}

func TestFingerprintTracksKnowledgeBaseIdentity(t *testing.T) {
	now := time.Now()
	base := []model.KnowledgeFragment{
		{ID: 1, UpdatedAt: now},
		{ID: 2, UpdatedAt: now},
	}

	require.Equal(t, Fingerprint(base), Fingerprint(base))

	edited := []model.KnowledgeFragment{
		{ID: 1, UpdatedAt: now},
		{ID: 2, UpdatedAt: now.Add(time.Second)},
	}
	assert.NotEqual(t, Fingerprint(base), Fingerprint(edited))

	removed := base[:1]
	assert.NotEqual(t, Fingerprint(base), Fingerprint(removed))

	reordered := []model.KnowledgeFragment{base[1], base[0]}
	assert.NotEqual(t, Fingerprint(base), Fingerprint(reordered))
}
