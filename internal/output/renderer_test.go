package output_test

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dunchi/github-commit-tracker/internal/commits"
	"github.com/dunchi/github-commit-tracker/internal/output"
)

const (
	testWidgetsRepositoryConstant = "acme/widgets"
	testGadgetsRepositoryConstant = "acme/gadgets"
	testFeatureMessageConstant    = "feat: add api\n\n* feat(api): add endpoint\n  * fix(core):   handle nil\nnot a bullet line\n* plain bullet\n"
	testExpectedTextConstant      = "widgets\n\n- feat: add api\n1. add endpoint\n2. handle nil\n3. * plain bullet\n\n- fix: typo\n\ngadgets\n\n- chore: bump ünïcode\n"
)

func sampleRecords() []commits.Record {
	return []commits.Record{
		{
			SHA:         "a1",
			Repository:  testWidgetsRepositoryConstant,
			Branch:      "main",
			Message:     testFeatureMessageConstant,
			AuthorName:  "Alice",
			AuthorEmail: "alice@example.com",
			Timestamp:   time.Date(2024, time.June, 14, 9, 30, 15, 0, time.UTC),
			URL:         "https://github.com/acme/widgets/commit/a1",
		},
		{
			SHA:         "b2",
			Repository:  testGadgetsRepositoryConstant,
			Branch:      "dev",
			Message:     "chore: bump ünïcode",
			AuthorName:  "Alice",
			AuthorEmail: "alice@example.com",
			Timestamp:   time.Date(2024, time.June, 14, 10, 0, 0, 0, time.FixedZone("KST", 9*60*60)),
			URL:         "https://github.com/acme/gadgets/commit/b2",
		},
		{
			SHA:         "c3",
			Repository:  testWidgetsRepositoryConstant,
			Branch:      "main",
			Message:     "fix: typo",
			AuthorName:  "Alice",
			AuthorEmail: "alice@example.com",
			Timestamp:   time.Date(2024, time.June, 14, 11, 0, 0, 0, time.UTC),
			URL:         "https://github.com/acme/widgets/commit/c3",
		},
	}
}

func newDefaultRenderer(testInstance *testing.T) *output.Renderer {
	renderer, creationError := output.NewRenderer("")
	require.NoError(testInstance, creationError)
	return renderer
}

func TestRenderTextGroupsByRepository(testInstance *testing.T) {
	renderer := newDefaultRenderer(testInstance)
	require.Equal(testInstance, testExpectedTextConstant, renderer.RenderText(sampleRecords()))
}

func TestRenderTextWithoutCommits(testInstance *testing.T) {
	renderer := newDefaultRenderer(testInstance)
	require.Equal(testInstance, "No commits found.", renderer.RenderText(nil))
}

func TestRenderTextCustomCleanupPattern(testInstance *testing.T) {
	renderer, creationError := output.NewRenderer(`^\*\s*`)
	require.NoError(testInstance, creationError)

	rendered := renderer.RenderText([]commits.Record{{Repository: testWidgetsRepositoryConstant, Message: "title\n* feat(api): keep scope"}})
	require.Equal(testInstance, "widgets\n\n- title\n1. feat(api): keep scope\n", rendered)
}

func TestNewRendererRejectsInvalidPattern(testInstance *testing.T) {
	renderer, creationError := output.NewRenderer(`([`)
	require.Error(testInstance, creationError)
	require.Nil(testInstance, renderer)
}

func TestRenderJSONRoundTrip(testInstance *testing.T) {
	records := sampleRecords()
	rendered, renderError := output.RenderJSON(records)
	require.NoError(testInstance, renderError)
	require.Contains(testInstance, rendered, "ünïcode")
	require.True(testInstance, strings.HasPrefix(rendered, "[\n  {"))

	var documents []output.Document
	require.NoError(testInstance, json.Unmarshal([]byte(rendered), &documents))
	require.Len(testInstance, documents, len(records))

	for documentIndex, document := range documents {
		original := records[documentIndex]
		require.Equal(testInstance, original.SHA, document.SHA)
		require.Equal(testInstance, original.Repository, document.Repository)
		require.Equal(testInstance, original.Branch, document.Branch)
		require.Equal(testInstance, original.Message, document.Message)

		parsedTimestamp, parseError := time.Parse(time.RFC3339, document.Date)
		require.NoError(testInstance, parseError)
		require.True(testInstance, original.Timestamp.Truncate(time.Second).Equal(parsedTimestamp))
	}
	require.Equal(testInstance, "2024-06-14T10:00:00+09:00", documents[1].Date)
}

func TestRenderJSONWithoutCommits(testInstance *testing.T) {
	rendered, renderError := output.RenderJSON(nil)
	require.NoError(testInstance, renderError)
	require.Equal(testInstance, "[]", rendered)
}

func TestRenderCSV(testInstance *testing.T) {
	rendered, renderError := output.RenderCSV(sampleRecords())
	require.NoError(testInstance, renderError)

	rows, parseError := csv.NewReader(strings.NewReader(rendered)).ReadAll()
	require.NoError(testInstance, parseError)
	require.Len(testInstance, rows, 4)
	require.Equal(testInstance, []string{"date", "repository", "branch", "author_name", "author_email", "sha", "message", "url"}, rows[0])
	require.Equal(testInstance, "2024-06-14T09:30:15Z", rows[1][0])
	require.Equal(testInstance, testFeatureMessageConstant, rows[1][6])

	emptyRendered, emptyError := output.RenderCSV(nil)
	require.NoError(testInstance, emptyError)
	require.Empty(testInstance, emptyRendered)
}

func TestRenderYAML(testInstance *testing.T) {
	rendered, renderError := output.RenderYAML(sampleRecords())
	require.NoError(testInstance, renderError)

	var documents []output.Document
	require.NoError(testInstance, yaml.Unmarshal([]byte(rendered), &documents))
	require.Len(testInstance, documents, 3)
	require.Equal(testInstance, "c3", documents[2].SHA)
	require.Equal(testInstance, "2024-06-14T11:00:00Z", documents[2].Date)
}

func TestRenderDispatch(testInstance *testing.T) {
	renderer := newDefaultRenderer(testInstance)

	for _, formatName := range output.SupportedFormats() {
		format, supported := output.ParseFormat(strings.ToUpper(formatName))
		require.True(testInstance, supported)

		rendered, renderError := renderer.Render(format, sampleRecords())
		require.NoError(testInstance, renderError)
		require.Contains(testInstance, rendered, "widgets")
	}

	_, supported := output.ParseFormat("xml")
	require.False(testInstance, supported)

	_, renderError := renderer.Render(output.Format("xml"), sampleRecords())
	require.Error(testInstance, renderError)
}
