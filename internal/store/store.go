// Package store loads and saves the category configuration: the ordered
// keyword mapping used for categorization and the per-category budgets.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/budget-buddy/internal/budgeterror"
	"fjacquet/budget-buddy/internal/fileutils"
	"fjacquet/budget-buddy/internal/logging"
	"fjacquet/budget-buddy/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	keyKeywordMapping = "keyword_mapping"
	keyBudget         = "budget"
)

// CategoryStore reads and writes the category configuration file. Files with
// a .json extension are written as JSON; anything else is written as YAML.
// Both are read through the YAML decoder.
type CategoryStore struct {
	Path   string
	logger logging.Logger
}

// NewCategoryStore creates a store for the given configuration file.
func NewCategoryStore(path string, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CategoryStore{
		Path:   path,
		logger: logger,
	}
}

// Load reads the configuration. When the file does not exist the defaults are
// written to it and returned. The loaded configuration is normalized and is
// not dirty.
func (s *CategoryStore) Load() (*CategoryConfig, error) {
	log := s.logger.WithField(logging.FieldFile, s.Path)

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("Category configuration not found, writing defaults")
		cfg := DefaultCategoryConfig()
		if err := s.Save(cfg); err != nil {
			log.WithError(err).Warn("Failed to write default category configuration")
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading category configuration: %w", err)
	}

	cfg, err := s.decode(data, log)
	if err != nil {
		return nil, err
	}

	log.Debug("Loaded category configuration",
		logging.Field{Key: "categories", Value: cfg.Keywords.Len()},
		logging.Field{Key: "budgets", Value: len(cfg.Budget.Categories())},
	)
	return cfg, nil
}

// Save writes the configuration atomically and clears its dirty flag.
func (s *CategoryStore) Save(cfg *CategoryConfig) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(s.Path), ".json") {
		data, err = encodeJSON(cfg)
	} else {
		data, err = encodeYAML(cfg)
	}
	if err != nil {
		return fmt.Errorf("error encoding category configuration: %w", err)
	}

	if err := fileutils.AtomicWriteFile(s.Path, data, models.PermissionConfigFile); err != nil {
		return &budgeterror.SinkError{Sink: "category configuration", Path: s.Path, Err: err}
	}

	cfg.dirty = false
	s.logger.WithField(logging.FieldFile, s.Path).Debug("Saved category configuration")
	return nil
}

func (s *CategoryStore) formatError(msg string) error {
	return &budgeterror.FormatError{FilePath: s.Path, Msg: msg}
}

// decode walks the YAML node tree so that category and phrase order survive.
// Unknown top-level keys are ignored.
func (s *CategoryStore) decode(data []byte, log logging.Logger) (*CategoryConfig, error) {
	cfg := NewCategoryConfig()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, s.formatError(err.Error())
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		log.Warn("Category configuration is empty")
		return cfg, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, s.formatError("top level must be a mapping")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		switch key {
		case keyKeywordMapping:
			if err := s.decodeKeywords(value, cfg, log); err != nil {
				return nil, err
			}
		case keyBudget:
			if err := s.decodeBudgets(value, cfg, log); err != nil {
				return nil, err
			}
		default:
			log.Debug("Ignoring unknown configuration key", logging.Field{Key: "key", Value: key})
		}
	}
	return cfg, nil
}

func (s *CategoryStore) decodeKeywords(node *yaml.Node, cfg *CategoryConfig, log logging.Logger) error {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return s.formatError(keyKeywordMapping + " must be a mapping")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		category := strings.TrimSpace(node.Content[i].Value)
		phrases := node.Content[i+1]
		if category == "" {
			log.Warn("Dropping keyword category with empty name")
			continue
		}
		if cfg.Keywords.HasCategory(category) {
			log.Warn("Merging duplicate keyword category", logging.Field{Key: logging.FieldCategory, Value: category})
		}
		cfg.Keywords.AddCategory(category)

		var values []*yaml.Node
		switch {
		case isNull(phrases):
		case phrases.Kind == yaml.SequenceNode:
			values = phrases.Content
		case phrases.Kind == yaml.ScalarNode:
			values = []*yaml.Node{phrases}
		default:
			return s.formatError(fmt.Sprintf("phrases of '%s' must be a list", category))
		}

		for _, phrase := range values {
			if phrase.Kind != yaml.ScalarNode {
				return s.formatError(fmt.Sprintf("phrases of '%s' must be strings", category))
			}
			if !cfg.Keywords.Add(category, phrase.Value) {
				log.Debug("Dropping empty or duplicate phrase",
					logging.Field{Key: logging.FieldCategory, Value: category},
					logging.Field{Key: logging.FieldPhrase, Value: phrase.Value},
				)
			}
		}
	}
	return nil
}

func (s *CategoryStore) decodeBudgets(node *yaml.Node, cfg *CategoryConfig, log logging.Logger) error {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return s.formatError(keyBudget + " must be a mapping")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		category := strings.TrimSpace(node.Content[i].Value)
		value := node.Content[i+1]
		if category == "" {
			log.Warn("Dropping budget with empty category name")
			continue
		}
		if cfg.Budget.Has(category) {
			log.Warn("Ignoring duplicate budget entry", logging.Field{Key: logging.FieldCategory, Value: category})
			continue
		}

		limit := decimal.Zero
		if !isNull(value) {
			parsed, err := decimal.NewFromString(strings.TrimSpace(value.Value))
			if err != nil || value.Kind != yaml.ScalarNode {
				return &budgeterror.ValidationError{
					Source: s.Path,
					Field:  keyBudget + "." + category,
					Value:  value.Value,
					Reason: "not a number",
				}
			}
			limit = parsed
		}

		if limit.IsNegative() {
			verr := &budgeterror.ValidationError{
				Source: s.Path,
				Field:  keyBudget + "." + category,
				Value:  value.Value,
				Reason: "budget cannot be negative",
			}
			log.WithError(verr).Warn("Clamping negative budget to zero")
			limit = decimal.Zero
		}
		cfg.Budget.Set(category, limit)
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

func encodeYAML(cfg *CategoryConfig) ([]byte, error) {
	keywords := &yaml.Node{Kind: yaml.MappingNode}
	for _, category := range cfg.Keywords.Categories() {
		phrases := &yaml.Node{Kind: yaml.SequenceNode}
		for _, phrase := range cfg.Keywords.Phrases(category) {
			phrases.Content = append(phrases.Content, stringNode(phrase))
		}
		keywords.Content = append(keywords.Content, stringNode(category), phrases)
	}

	budgets := &yaml.Node{Kind: yaml.MappingNode}
	for _, category := range cfg.Budget.Categories() {
		budgets.Content = append(budgets.Content,
			stringNode(category),
			&yaml.Node{Kind: yaml.ScalarNode, Value: cfg.Budget.Limit(category).String()},
		)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content,
		stringNode(keyKeywordMapping), keywords,
		stringNode(keyBudget), budgets,
	)
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// encodeJSON writes the same document as JSON, indented by two spaces, with
// categories in mapping order. encoding/json cannot keep map order so the
// objects are assembled by hand.
func encodeJSON(cfg *CategoryConfig) ([]byte, error) {
	var buf bytes.Buffer

	writeString := func(s string) error {
		encoded, err := json.Marshal(s)
		if err != nil {
			return err
		}
		buf.Write(encoded)
		return nil
	}

	buf.WriteString("{\n  \"" + keyKeywordMapping + "\": {")
	for i, category := range cfg.Keywords.Categories() {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    ")
		if err := writeString(category); err != nil {
			return nil, err
		}
		buf.WriteString(": [")
		for j, phrase := range cfg.Keywords.Phrases(category) {
			if j > 0 {
				buf.WriteString(", ")
			}
			if err := writeString(phrase); err != nil {
				return nil, err
			}
		}
		buf.WriteString("]")
	}
	if cfg.Keywords.Len() > 0 {
		buf.WriteString("\n  ")
	}

	buf.WriteString("},\n  \"" + keyBudget + "\": {")
	budgets := cfg.Budget.Categories()
	for i, category := range budgets {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    ")
		if err := writeString(category); err != nil {
			return nil, err
		}
		buf.WriteString(": " + cfg.Budget.Limit(category).String())
	}
	if len(budgets) > 0 {
		buf.WriteString("\n  ")
	}
	buf.WriteString("}\n}\n")

	if !json.Valid(buf.Bytes()) {
		return nil, fmt.Errorf("generated invalid JSON")
	}
	return buf.Bytes(), nil
}
