package repositories

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/ml"
	"alfredoptarigan/resume-screener/internal/models"
)

// ArtifactSet is a vectorizer and classifier produced by one training run,
// together with the manifest describing them.
type ArtifactSet struct {
	Manifest   models.Manifest
	Vectorizer *ml.TfidfVectorizer
	Classifier *ml.LogisticRegression
}

type ArtifactRepository interface {
	Save(set *ArtifactSet) error
	Load() (*ArtifactSet, error)
}

type vectorizerArtifact struct {
	FormatVersion int                 `json:"format_version"`
	RunID         uuid.UUID           `json:"run_id"`
	Vectorizer    *ml.TfidfVectorizer `json:"vectorizer"`
}

type classifierArtifact struct {
	FormatVersion int                    `json:"format_version"`
	RunID         uuid.UUID              `json:"run_id"`
	Classifier    *ml.LogisticRegression `json:"classifier"`
}

type artifactRepository struct {
	cfg config.ModelConfig
}

func NewArtifactRepository(cfg config.ModelConfig) ArtifactRepository {
	return &artifactRepository{cfg: cfg}
}

// rename is swapped in tests to fail specific installs.
var rename = os.Rename

// Save implements ArtifactRepository. The vectorizer and classifier are
// written under names scoped to the run id, so they never overwrite the
// files the current manifest points at. Renaming the manifest into place is
// the only commit point: until it succeeds the previous run stays loadable,
// and once it does the previous run's files are removed.
func (r *artifactRepository) Save(set *ArtifactSet) error {
	if err := os.MkdirAll(r.cfg.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	vecData, err := json.Marshal(vectorizerArtifact{
		FormatVersion: models.ArtifactFormatVersion,
		RunID:         set.Manifest.RunID,
		Vectorizer:    set.Vectorizer,
	})
	if err != nil {
		return fmt.Errorf("failed to encode vectorizer: %w", err)
	}

	clsData, err := json.Marshal(classifierArtifact{
		FormatVersion: models.ArtifactFormatVersion,
		RunID:         set.Manifest.RunID,
		Classifier:    set.Classifier,
	})
	if err != nil {
		return fmt.Errorf("failed to encode classifier: %w", err)
	}

	manifest := set.Manifest
	manifest.FormatVersion = models.ArtifactFormatVersion
	manifest.VectorizerFile = runFileName(r.cfg.VectorizerFile, manifest.RunID)
	manifest.ClassifierFile = runFileName(r.cfg.ClassifierFile, manifest.RunID)
	manifest.VectorizerSHA256 = checksum(vecData)
	manifest.ClassifierSHA256 = checksum(clsData)

	manData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	previous := r.previousFiles()

	files := []struct {
		dest      string
		data      []byte
		tmp       string
		installed bool
	}{
		{dest: filepath.Join(r.cfg.Dir, manifest.VectorizerFile), data: vecData},
		{dest: filepath.Join(r.cfg.Dir, manifest.ClassifierFile), data: clsData},
		{dest: r.cfg.ManifestPath(), data: manData},
	}

	// On failure the manifest was never installed, so every installed file
	// belongs to this run only.
	cleanup := func() {
		for _, f := range files {
			if f.tmp != "" {
				os.Remove(f.tmp)
			}
			if f.installed {
				os.Remove(f.dest)
			}
		}
	}

	for i := range files {
		tmp, err := writeTemp(r.cfg.Dir, files[i].data)
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", filepath.Base(files[i].dest), err)
		}
		files[i].tmp = tmp
	}

	for i := range files {
		if err := rename(files[i].tmp, files[i].dest); err != nil {
			cleanup()
			return fmt.Errorf("failed to install %s: %w", filepath.Base(files[i].dest), err)
		}
		files[i].tmp = ""
		files[i].installed = files[i].dest != r.cfg.ManifestPath()
	}

	for _, name := range previous {
		if name == manifest.VectorizerFile || name == manifest.ClassifierFile {
			continue
		}
		path := filepath.Join(r.cfg.Dir, filepath.Base(name))
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("⚠️  Failed to remove previous artifact %s: %v\n", path, err)
		}
	}

	set.Manifest = manifest
	return nil
}

// previousFiles returns the artifact names referenced by the manifest
// currently installed, if it can be read.
func (r *artifactRepository) previousFiles() []string {
	data, err := os.ReadFile(r.cfg.ManifestPath())
	if err != nil {
		return nil
	}
	var manifest models.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil
	}

	var names []string
	for _, name := range []string{manifest.VectorizerFile, manifest.ClassifierFile} {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Load implements ArtifactRepository. Every failure wraps models.ErrStartup.
func (r *artifactRepository) Load() (*ArtifactSet, error) {
	manData, err := os.ReadFile(r.cfg.ManifestPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: manifest %s not found, run the training script first", models.ErrStartup, r.cfg.ManifestPath())
		}
		return nil, fmt.Errorf("%w: failed to read manifest: %w", models.ErrStartup, err)
	}

	var manifest models.Manifest
	if err := json.Unmarshal(manData, &manifest); err != nil {
		return nil, fmt.Errorf("%w: failed to decode manifest: %w", models.ErrStartup, err)
	}
	if manifest.FormatVersion != models.ArtifactFormatVersion {
		return nil, fmt.Errorf("%w: manifest format version %d, expected %d",
			models.ErrStartup, manifest.FormatVersion, models.ArtifactFormatVersion)
	}

	var vec vectorizerArtifact
	if err := r.readArtifact(manifest.VectorizerFile, manifest.VectorizerSHA256, &vec); err != nil {
		return nil, err
	}
	var cls classifierArtifact
	if err := r.readArtifact(manifest.ClassifierFile, manifest.ClassifierSHA256, &cls); err != nil {
		return nil, err
	}

	if vec.FormatVersion != manifest.FormatVersion || cls.FormatVersion != manifest.FormatVersion {
		return nil, fmt.Errorf("%w: artifact format versions do not match manifest", models.ErrStartup)
	}
	if vec.RunID != manifest.RunID || cls.RunID != manifest.RunID {
		return nil, fmt.Errorf("%w: artifacts come from different training runs (manifest %s, vectorizer %s, classifier %s)",
			models.ErrStartup, manifest.RunID, vec.RunID, cls.RunID)
	}
	if vec.Vectorizer == nil || cls.Classifier == nil {
		return nil, fmt.Errorf("%w: artifact payload is empty", models.ErrStartup)
	}
	if err := vec.Vectorizer.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid vectorizer: %w", models.ErrStartup, err)
	}
	if err := cls.Classifier.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid classifier: %w", models.ErrStartup, err)
	}

	dim := vec.Vectorizer.FeatureDim()
	if dim != manifest.FeatureDim || cls.Classifier.FeatureDim != manifest.FeatureDim {
		return nil, fmt.Errorf("%w: feature dimension mismatch (manifest %d, vectorizer %d, classifier %d)",
			models.ErrStartup, manifest.FeatureDim, dim, cls.Classifier.FeatureDim)
	}
	if !slices.Equal(cls.Classifier.Classes, manifest.Classes) {
		return nil, fmt.Errorf("%w: classifier labels do not match manifest", models.ErrStartup)
	}

	return &ArtifactSet{
		Manifest:   manifest,
		Vectorizer: vec.Vectorizer,
		Classifier: cls.Classifier,
	}, nil
}

func (r *artifactRepository) readArtifact(name, wantSum string, target any) error {
	path := filepath.Join(r.cfg.Dir, filepath.Base(name))
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s: %w", models.ErrStartup, path, err)
	}
	if got := checksum(data); got != wantSum {
		return fmt.Errorf("%w: checksum mismatch for %s", models.ErrStartup, path)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %w", models.ErrStartup, path, err)
	}
	return nil
}

func writeTemp(dir string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, ".artifact-*.tmp")
	if err != nil {
		return "", err
	}
	name := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

// runFileName turns "vectorizer.json" into "vectorizer-<run id>.json".
func runFileName(base string, runID uuid.UUID) string {
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "-" + runID.String() + ext
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
