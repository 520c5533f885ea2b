package corpus

import (
	"errors"
	"fmt"
	"os"

	"github.com/shapingai/shaping-ai-dashboard/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrEmptyArtifact is returned when a model artifact decodes to nothing.
var ErrEmptyArtifact = errors.New("corpus: empty artifact")

// topicModelDoc is the mapping form of the topic model artifact. The bare
// matrix form is also accepted. JSON exports decode the same way since
// YAML is a superset of JSON.
type topicModelDoc struct {
	Components [][]float64 `yaml:"components"`
}

type vocabularyDoc struct {
	Vocabulary []string `yaml:"vocabulary"`
}

func decodeArtifact(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyArtifact)
	}
	return doc.Content[0], nil
}

func readTopicModel(path string) (model.TopicModel, error) {
	node, err := decodeArtifact(path)
	if err != nil {
		return model.TopicModel{}, err
	}

	var components [][]float64
	switch node.Kind {
	case yaml.SequenceNode:
		err = node.Decode(&components)
	case yaml.MappingNode:
		var doc topicModelDoc
		err = node.Decode(&doc)
		components = doc.Components
	default:
		err = fmt.Errorf("unexpected yaml node kind %d", node.Kind)
	}
	if err != nil {
		return model.TopicModel{}, fmt.Errorf("decode topic model %s: %w", path, err)
	}
	if len(components) == 0 {
		return model.TopicModel{}, fmt.Errorf("%s: %w", path, ErrEmptyArtifact)
	}
	return model.TopicModel{Components: components}, nil
}

func readVocabulary(path string) (model.Vocabulary, error) {
	node, err := decodeArtifact(path)
	if err != nil {
		return nil, err
	}

	var terms []string
	switch node.Kind {
	case yaml.SequenceNode:
		err = node.Decode(&terms)
	case yaml.MappingNode:
		var doc vocabularyDoc
		err = node.Decode(&doc)
		terms = doc.Vocabulary
	default:
		err = fmt.Errorf("unexpected yaml node kind %d", node.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode vocabulary %s: %w", path, err)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyArtifact)
	}
	return model.Vocabulary(terms), nil
}
