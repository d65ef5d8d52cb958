package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dunchi/github-commit-tracker/internal/commits"
)

const (
	formatTextStringConstant              = "text"
	formatJSONStringConstant              = "json"
	formatCSVStringConstant               = "csv"
	formatYAMLStringConstant              = "yaml"
	noCommitsFoundMessageConstant         = "No commits found."
	repositorySeparatorConstant           = "/"
	messageLineSeparatorConstant          = "\n"
	bodyBulletMarkerConstant              = "*"
	titleLinePrefixConstant               = "- "
	bodyLineNumberSeparatorConstant       = ". "
	jsonIndentConstant                    = "  "
	yamlIndentConstant                    = 2
	invalidCleanupPatternTemplateConstant = "invalid cleanup pattern %q: %w"
	unsupportedFormatTemplateConstant     = "unsupported output format: %s"
	jsonEncodingErrorTemplateConstant     = "unable to encode commits as JSON: %w"
	csvEncodingErrorTemplateConstant      = "unable to encode commits as CSV: %w"
	yamlEncodingErrorTemplateConstant     = "unable to encode commits as YAML: %w"
)

// DefaultCleanupPattern strips a leading "anything (scope): " prefix from bullet lines.
const DefaultCleanupPattern = `^.*\([^)]+\):\s*`

// Format enumerates supported renderings.
type Format string

// Supported output formats.
const (
	FormatText Format = Format(formatTextStringConstant)
	FormatJSON Format = Format(formatJSONStringConstant)
	FormatCSV  Format = Format(formatCSVStringConstant)
	FormatYAML Format = Format(formatYAMLStringConstant)
)

// SupportedFormats lists formats in the order they are offered to operators.
func SupportedFormats() []string {
	return []string{formatTextStringConstant, formatJSONStringConstant, formatCSVStringConstant, formatYAMLStringConstant}
}

// ParseFormat normalizes a configured format and reports whether it is supported.
func ParseFormat(rawFormat string) (Format, bool) {
	normalizedFormat := Format(strings.ToLower(strings.TrimSpace(rawFormat)))
	switch normalizedFormat {
	case FormatText, FormatJSON, FormatCSV, FormatYAML:
		return normalizedFormat, true
	default:
		return normalizedFormat, false
	}
}

var csvHeader = []string{"date", "repository", "branch", "author_name", "author_email", "sha", "message", "url"}

// Document is the serialized projection of a commit record.
type Document struct {
	SHA         string `json:"sha" yaml:"sha"`
	Repository  string `json:"repository" yaml:"repository"`
	Branch      string `json:"branch" yaml:"branch"`
	Message     string `json:"message" yaml:"message"`
	AuthorName  string `json:"author_name" yaml:"author_name"`
	AuthorEmail string `json:"author_email" yaml:"author_email"`
	Date        string `json:"date" yaml:"date"`
	URL         string `json:"url" yaml:"url"`
}

// NewDocument projects a record, encoding its timestamp as RFC 3339.
func NewDocument(record commits.Record) Document {
	return Document{
		SHA:         record.SHA,
		Repository:  record.Repository,
		Branch:      record.Branch,
		Message:     record.Message,
		AuthorName:  record.AuthorName,
		AuthorEmail: record.AuthorEmail,
		Date:        record.Timestamp.Format(time.RFC3339),
		URL:         record.URL,
	}
}

// Renderer turns records into one of the supported formats.
type Renderer struct {
	cleanupExpression *regexp.Regexp
}

// NewRenderer compiles the cleanup pattern applied to bullet lines; an empty pattern uses DefaultCleanupPattern.
func NewRenderer(cleanupPattern string) (*Renderer, error) {
	if len(strings.TrimSpace(cleanupPattern)) == 0 {
		cleanupPattern = DefaultCleanupPattern
	}
	cleanupExpression, compileError := regexp.Compile(cleanupPattern)
	if compileError != nil {
		return nil, fmt.Errorf(invalidCleanupPatternTemplateConstant, cleanupPattern, compileError)
	}
	return &Renderer{cleanupExpression: cleanupExpression}, nil
}

// Render dispatches to the renderer for the requested format.
func (renderer *Renderer) Render(format Format, records []commits.Record) (string, error) {
	switch format {
	case FormatText:
		return renderer.RenderText(records), nil
	case FormatJSON:
		return RenderJSON(records)
	case FormatCSV:
		return RenderCSV(records)
	case FormatYAML:
		return RenderYAML(records)
	default:
		return "", fmt.Errorf(unsupportedFormatTemplateConstant, format)
	}
}

// RenderText groups records by short repository name in first-seen order.
// Each commit shows its title and the numbered, cleaned bullet lines of its body.
func (renderer *Renderer) RenderText(records []commits.Record) string {
	if len(records) == 0 {
		return noCommitsFoundMessageConstant
	}

	repositoryOrder := make([]string, 0)
	recordsByRepository := make(map[string][]commits.Record)
	for _, record := range records {
		shortName := shortRepositoryName(record.Repository)
		if _, seen := recordsByRepository[shortName]; !seen {
			repositoryOrder = append(repositoryOrder, shortName)
		}
		recordsByRepository[shortName] = append(recordsByRepository[shortName], record)
	}

	lines := make([]string, 0, len(records)*3)
	for _, repositoryName := range repositoryOrder {
		lines = append(lines, repositoryName, "")
		for _, record := range recordsByRepository[repositoryName] {
			title, bodyLines := renderer.splitMessage(record.Message)
			lines = append(lines, titleLinePrefixConstant+title)
			for bodyIndex, bodyLine := range bodyLines {
				lines = append(lines, strconv.Itoa(bodyIndex+1)+bodyLineNumberSeparatorConstant+bodyLine)
			}
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, messageLineSeparatorConstant)
}

func (renderer *Renderer) splitMessage(message string) (string, []string) {
	messageLines := strings.Split(strings.TrimSpace(message), messageLineSeparatorConstant)
	title := strings.TrimRight(messageLines[0], "\r")

	bodyLines := make([]string, 0)
	for _, rawLine := range messageLines[1:] {
		trimmedLine := strings.TrimSpace(rawLine)
		if !strings.HasPrefix(trimmedLine, bodyBulletMarkerConstant) {
			continue
		}
		cleanedLine := renderer.CleanLine(trimmedLine)
		if len(cleanedLine) == 0 {
			continue
		}
		bodyLines = append(bodyLines, cleanedLine)
	}
	return title, bodyLines
}

// CleanLine removes the cleanup pattern from a trimmed message line.
func (renderer *Renderer) CleanLine(line string) string {
	return renderer.cleanupExpression.ReplaceAllString(strings.TrimSpace(line), "")
}

func shortRepositoryName(repositoryFullName string) string {
	separatorIndex := strings.LastIndex(repositoryFullName, repositorySeparatorConstant)
	if separatorIndex < 0 {
		return repositoryFullName
	}
	return repositoryFullName[separatorIndex+1:]
}

func projectDocuments(records []commits.Record) []Document {
	documents := make([]Document, 0, len(records))
	for _, record := range records {
		documents = append(documents, NewDocument(record))
	}
	return documents
}

// RenderJSON encodes records as an indented JSON array without HTML escaping.
func RenderJSON(records []commits.Record) (string, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", jsonIndentConstant)
	if encodingError := encoder.Encode(projectDocuments(records)); encodingError != nil {
		return "", fmt.Errorf(jsonEncodingErrorTemplateConstant, encodingError)
	}
	return strings.TrimSuffix(buffer.String(), messageLineSeparatorConstant), nil
}

// RenderCSV encodes records with a header row; no records yield an empty string.
func RenderCSV(records []commits.Record) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	writer.UseCRLF = true
	if writeError := writer.Write(csvHeader); writeError != nil {
		return "", fmt.Errorf(csvEncodingErrorTemplateConstant, writeError)
	}
	for _, document := range projectDocuments(records) {
		row := []string{
			document.Date,
			document.Repository,
			document.Branch,
			document.AuthorName,
			document.AuthorEmail,
			document.SHA,
			document.Message,
			document.URL,
		}
		if writeError := writer.Write(row); writeError != nil {
			return "", fmt.Errorf(csvEncodingErrorTemplateConstant, writeError)
		}
	}
	writer.Flush()
	if flushError := writer.Error(); flushError != nil {
		return "", fmt.Errorf(csvEncodingErrorTemplateConstant, flushError)
	}
	return buffer.String(), nil
}

// RenderYAML encodes records as a YAML sequence.
func RenderYAML(records []commits.Record) (string, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndentConstant)
	if encodingError := encoder.Encode(projectDocuments(records)); encodingError != nil {
		return "", fmt.Errorf(yamlEncodingErrorTemplateConstant, encodingError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return "", fmt.Errorf(yamlEncodingErrorTemplateConstant, closeError)
	}
	return buffer.String(), nil
}
