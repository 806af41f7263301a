package generative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flarexio/docsift"
	"github.com/flarexio/docsift/llm"
	"github.com/flarexio/docsift/nlp"
)

const entitiesPrompt = `Extract the named entities from the text below.
Use the CoNLL/OntoNotes style labels in upper case (PERSON, ORG, GPE, LOC, DATE, MONEY, ...).
Return only a JSON object of the form {"entities": [{"text": "...", "type": "..."}]},
listing entities in the order they appear. Return {"entities": []} when there are none.

Text:
%s`

// Pipeline extracts entities by prompting a generative language model.
type Pipeline struct {
	generator llm.Generator
}

func NewPipeline(generator llm.Generator) *Pipeline {
	return &Pipeline{generator}
}

func (p *Pipeline) Entities(ctx context.Context, text string) ([]nlp.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return []nlp.Entity{}, nil
	}

	content, err := p.generator.Generate(ctx, fmt.Sprintf(entitiesPrompt, text))
	if err != nil {
		return nil, err
	}

	var result struct {
		Entities []nlp.Entity `json:"entities"`
	}

	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("%w: %s", docsift.ErrInvalidNLPResponse, err.Error())
	}

	entities := make([]nlp.Entity, 0, len(result.Entities))
	for _, entity := range result.Entities {
		if entity.Text == "" || entity.Type == "" {
			continue
		}

		entities = append(entities, entity)
	}

	return entities, nil
}
