// Package modelstore persists trained category models as YAML artifacts,
// one per category, alongside the feature schema they were trained on.
// A schema mismatch on load invalidates the artifact and forces
// retraining instead of risking silent feature misalignment.
package modelstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/spendcast/internal/forecasterror"
	"fjacquet/spendcast/internal/gbt"
	"fjacquet/spendcast/internal/logging"
	"fjacquet/spendcast/internal/models"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is bumped whenever the artifact layout changes. Artifacts
// with a different version are cache misses.
const SchemaVersion = 1

// Artifact is the on-disk form of a trained category model.
type Artifact struct {
	SchemaVersion int            `yaml:"schema_version"`
	Category      string         `yaml:"category"`
	Schema        []string       `yaml:"schema"`
	TrainedAt     time.Time      `yaml:"trained_at"`
	Rows          int            `yaml:"rows"`
	MAE           *float64       `yaml:"mae"`
	FoldMAEs      []float64      `yaml:"fold_maes,omitempty"`
	Booster       *gbt.Regressor `yaml:"booster"`
}

// Store reads and writes model artifacts under one directory.
type Store struct {
	dir    string
	logger logging.Logger
}

// NewStore creates a Store rooted at dir, creating it if needed.
func NewStore(dir string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating model directory %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Save writes the model's artifact, replacing any previous one for the
// category.
func (s *Store) Save(model *models.CategoryModel) error {
	artifact := Artifact{
		SchemaVersion: SchemaVersion,
		Category:      model.Category,
		Schema:        model.Schema,
		TrainedAt:     model.TrainedAt,
		Rows:          model.Rows,
		FoldMAEs:      model.FoldMAEs,
		Booster:       model.Booster,
	}
	if model.MAEKnown {
		mae := model.MAE
		artifact.MAE = &mae
	}

	data, err := yaml.Marshal(&artifact)
	if err != nil {
		return fmt.Errorf("error marshaling model artifact for %q: %w", model.Category, err)
	}

	path := s.path(model.Category)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing model artifact %s: %w", path, err)
	}

	s.logger.Info("Saved model artifact",
		logging.Field{Key: logging.FieldCategory, Value: model.Category},
		logging.Field{Key: logging.FieldFile, Value: path})
	return nil
}

// Load reads the artifact for a category and validates it against the
// current feature schema. Any missing, corrupt or mismatched artifact is
// reported as an error the caller treats as a cache miss.
func (s *Store) Load(category string, schema []string) (*models.CategoryModel, error) {
	path := s.path(category)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, &forecasterror.ArtifactError{Category: category, Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			s.logger.WithError(cerr).Warn("Failed to close model artifact")
		}
	}()

	var artifact Artifact
	if err := yaml.NewDecoder(file).Decode(&artifact); err != nil {
		return nil, &forecasterror.ArtifactError{Category: category, Path: path, Err: err}
	}

	if artifact.SchemaVersion != SchemaVersion || artifact.Booster == nil {
		return nil, &forecasterror.ArtifactError{
			Category: category,
			Path:     path,
			Err:      fmt.Errorf("unsupported schema version %d", artifact.SchemaVersion),
		}
	}

	model := &models.CategoryModel{
		Category:  artifact.Category,
		Schema:    artifact.Schema,
		Booster:   artifact.Booster,
		FoldMAEs:  artifact.FoldMAEs,
		Rows:      artifact.Rows,
		TrainedAt: artifact.TrainedAt,
	}
	if artifact.MAE != nil {
		model.MAE = *artifact.MAE
		model.MAEKnown = true
	}

	if !model.SchemaMatches(schema) {
		return nil, &forecasterror.SchemaMismatchError{
			Category: category,
			Stored:   model.Schema,
			Current:  schema,
		}
	}

	return model, nil
}

// path returns the artifact location for a category.
func (s *Store) path(category string) string {
	return filepath.Join(s.dir, fmt.Sprintf("gbt_%s.yaml", slug(category)))
}

// slug makes a category name filesystem safe.
func slug(category string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(category) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '_', r == '-', r == '/':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "uncategorized"
	}
	return b.String()
}
