package config

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeJSONCRemovesCommentsAndTrailingCommas(t *testing.T) {
	input := `
{
  // line comment
  "items": [
    "one", /* block comment */
    "two",
  ],
  "nested": {
    "enabled": true,
  },
}
`

	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)
	require.NotContains(t, normalized, "//")
	require.NotContains(t, normalized, "/*")
	require.NotContains(t, normalized, ",]")
	require.NotContains(t, normalized, ",}")
}

func TestNormalizeJSONCPreservesOffsets(t *testing.T) {
	input := "{\n  \"a\": 1, // trailing\n  /* gone */\n}"
	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)
	require.Len(t, normalized, len(input))
	require.Equal(t, strings.Count(input, "\n"), strings.Count(normalized, "\n"))

	var payload map[string]int
	require.NoError(t, json.Unmarshal([]byte(normalized), &payload))
	require.Equal(t, 1, payload["a"])
}

func TestNormalizeJSONCKeepsEscapedQuotes(t *testing.T) {
	input := `{"v":"say \"hi\", // not a comment",}`
	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(normalized), &payload))
	require.Equal(t, `say "hi", // not a comment`, payload["v"])
}

func TestParseJSONCErrorLineSurvivesComments(t *testing.T) {
	_, _, err := Parse("{\n  // note\n  /* block\n     comment */\n  \"interview\": {\"min_words\": \"many\"}\n}", Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 5")
}

func TestNormalizeJSONCRetainsCommentLikeTextInsideStrings(t *testing.T) {
	input := `{"value":"contains // and /* comment-like */ text",}`
	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)
	require.Contains(t, normalized, "// and /* comment-like */")
}

func TestNormalizeJSONCUnterminatedBlockCommentFails(t *testing.T) {
	_, err := normalizeJSONC("{ /* unterminated ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unterminated block comment")
}

func TestEnsureSingleJSONValueRejectsExtraPayload(t *testing.T) {
	decoder := json.NewDecoder(strings.NewReader(`{"one":1}{"two":2}`))
	var payload map[string]any
	require.NoError(t, decoder.Decode(&payload))

	err := ensureSingleJSONValue(decoder)
	require.Error(t, err)
	require.Contains(t, err.Error(), "multiple JSON values")
}

func TestOffsetToLineCol(t *testing.T) {
	content := "line1\nline2\nline3"
	line, col := offsetToLineCol(content, 1)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	line, col = offsetToLineCol(content, 8)
	require.Equal(t, 2, line)
	require.Equal(t, 2, col)

	line, col = offsetToLineCol(content, 999)
	require.Equal(t, 3, line)
	require.Equal(t, 5, col)
}

func TestParseJSONCOverridesInterviewThresholds(t *testing.T) {
	cfg, _, err := Parse(`{
  // stricter answers for system design rounds
  "interview": {
    "silence_seconds": 6,
    "min_words": 30,
    "min_chars": 150,
    "hint_after_seconds": 3,
  },
  "transcription": {"provider": "vosk", "vosk": {"model_path": "/models/en"}},
}`, Default())
	require.NoError(t, err)
	require.Equal(t, 6, cfg.Interview.SilenceSeconds)
	require.Equal(t, 30, cfg.Interview.MinWords)
	require.Equal(t, 150, cfg.Interview.MinChars)
	require.Equal(t, 3, cfg.Interview.HintAfterSeconds)
	require.Equal(t, 1500, cfg.Interview.SettleDelayMS, "unset fields keep defaults")
	require.Equal(t, ProviderVosk, cfg.Transcription.Provider)
	require.Equal(t, "/models/en", cfg.Transcription.Vosk.ModelPath)
}

func TestParseJSONCRejectsInvalidAnswerHook(t *testing.T) {
	_, _, err := Parse(`{"answer_hook_cmd":"unterminated ' quote"}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid answer_hook_cmd")
}

func TestParseJSONCParsesAnswerHookArgv(t *testing.T) {
	cfg, _, err := Parse(`{"answer_hook_cmd":"tee -a 'my answers.txt'"}`, Default())
	require.NoError(t, err)
	require.Equal(t, []string{"tee", "-a", "my answers.txt"}, cfg.AnswerHook.Argv)
}

func TestParseJSONCTrimsIndicatorFields(t *testing.T) {
	cfg, _, err := Parse(`{
  "indicator": {
    "backend": " desktop ",
    "desktop_app_name": "  mockello-indicator  "
  }
}`, Default())
	require.NoError(t, err)
	require.Equal(t, "desktop", cfg.Indicator.Backend)
	require.Equal(t, "mockello-indicator", cfg.Indicator.DesktopAppName)
}

func TestParseJSONCRejectsUnknownFields(t *testing.T) {
	_, _, err := Parse(`{"paste":{"enable":true}}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown field")
}

func TestParseJSONCRejectsMultipleTopLevelValues(t *testing.T) {
	_, _, err := Parse(`{"log":{"level":"info"}}{"log":{"level":"debug"}}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "multiple JSON values")
}

func TestParseJSONCTypeErrorIncludesLocation(t *testing.T) {
	_, _, err := Parse(`{
  "interview": {"min_words": "many"}
}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "line")
	require.Contains(t, err.Error(), "column")
}

func TestParseConfigFileAPIKeyWarns(t *testing.T) {
	_, warnings, err := Parse(`{"transcription":{"deepgram":{"api_key":"dg-secret"}}}`, Default())
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
	require.Contains(t, warnings[0].Message, "prefer DEEPGRAM_API_KEY")
}
