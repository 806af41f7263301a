package retrieval

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/flarexio/docsift"
)

const (
	CSVFilename = "query_results.csv"

	// MaxResults caps the rows returned by a single query.
	MaxResults = 10

	// MaxDocumentLength is the rune length the document column is cut to.
	MaxDocumentLength = 500
)

const (
	MetadataFilename   = "filename"
	MetadataPages      = "pages"
	MetadataCharacters = "characters"
)

// MetadataFields describes every metadata key written on ingestion.
var MetadataFields = map[string]string{
	MetadataFilename:   `the uploaded file name, e.g. "annual-report-2023.pdf"`,
	MetadataPages:      `the number of pages, e.g. "12"`,
	MetadataCharacters: `the number of extracted characters, e.g. "5120"`,
}

type File struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

type Result struct {
	Document string            `json:"document"`
	Metadata map[string]string `json:"metadata"`
	Distance float32           `json:"distance"`
}

type AddDocumentsResponse struct {
	Added   int    `json:"added"`
	Message string `json:"message"`
}

func NewAddDocumentsResponse(added int) AddDocumentsResponse {
	return AddDocumentsResponse{
		Added:   added,
		Message: fmt.Sprintf("Successfully added %d documents", added),
	}
}

const metadataFilterPrompt = `You translate a search request into a metadata filter for a document collection.
Documents carry these metadata fields, all with string values:
%s
Return a JSON object mapping field names to the exact value a matching document must have.
Only use the fields listed above and only when the request states the value explicitly.
Values must be plain strings, numbers or booleans, never objects or arrays.
Return {} when the request implies no filter.

Request: %s`

// MetadataFilterPrompt asks a language model to turn text into a metadata filter.
func MetadataFilterPrompt(text string) string {
	fields := make([]string, 0, len(MetadataFields))
	for name := range MetadataFields {
		fields = append(fields, name)
	}

	sort.Strings(fields)

	var b strings.Builder
	for _, name := range fields {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(MetadataFields[name])
		b.WriteString("\n")
	}

	return fmt.Sprintf(metadataFilterPrompt, b.String(), text)
}

// ParseMetadataFilter validates a model completion and converts it into an
// exact-match filter. Only known metadata fields with scalar values pass.
func ParseMetadataFilter(content string) (map[string]string, error) {
	content = stripCodeFence(content)

	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("%w: %s", docsift.ErrInvalidMetadataQuery, err.Error())
	}

	if raw == nil {
		return nil, fmt.Errorf("%w: not a JSON object", docsift.ErrInvalidMetadataQuery)
	}

	filter := make(map[string]string, len(raw))
	for key, value := range raw {
		if _, ok := MetadataFields[key]; !ok {
			return nil, fmt.Errorf("%w: unknown field %q", docsift.ErrInvalidMetadataQuery, key)
		}

		switch v := value.(type) {
		case string:
			filter[key] = v

		case float64:
			filter[key] = strconv.FormatFloat(v, 'f', -1, 64)

		case bool:
			filter[key] = strconv.FormatBool(v)

		default:
			return nil, fmt.Errorf("%w: unsupported value for field %q", docsift.ErrInvalidMetadataQuery, key)
		}
	}

	return filter, nil
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	content = strings.TrimPrefix(content, "json")
	content = strings.TrimSuffix(content, "```")

	return strings.TrimSpace(content)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	return string([]rune(s)[:n])
}

// NewTable lays results out under the document,metadata,distance header in
// the order they were returned.
func NewTable(results []Result) *docsift.Table {
	table := docsift.NewTable("document", "metadata", "distance")
	for _, result := range results {
		metadata := "{}"
		if len(result.Metadata) > 0 {
			if bs, err := json.Marshal(result.Metadata); err == nil {
				metadata = string(bs)
			}
		}

		distance := strconv.FormatFloat(float64(result.Distance), 'g', -1, 32)

		table.Append(result.Document, metadata, distance)
	}

	return table
}

func NewCSVFile(results []Result) docsift.CSVFile {
	return docsift.CSVFile{
		Filename: CSVFilename,
		Table:    NewTable(results),
	}
}
